package services

import (
	"path/filepath"
	"testing"

	"employee-portal/internal/config"
	"employee-portal/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testDefaultPassword = "123456"

// setupTestDB initializes a fresh sqlite database under t.TempDir
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type:   "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "services_test.db")},
		},
	}

	db, err := models.InitDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testServices struct {
	db        *gorm.DB
	hasher    *BcryptHasher
	tokens    *TokenCodec
	accounts  *AccountService
	employees *EmployeeService
	auth      *AuthService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := setupTestDB(t)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	tokens, err := NewTokenCodec(testSecret)
	require.NoError(t, err)

	accounts := NewAccountService(db, hasher)
	employees := NewEmployeeService(db, hasher, testDefaultPassword)

	return &testServices{
		db:        db,
		hasher:    hasher,
		tokens:    tokens,
		accounts:  accounts,
		employees: employees,
		auth:      NewAuthService(accounts, employees, hasher, tokens),
	}
}

func employeeData(email string) EmployeeData {
	joined, _ := models.ParseDate("2020-01-15")
	return EmployeeData{
		FirstName:   "Test",
		LastName:    "Employee",
		Email:       email,
		Salary:      50000,
		Department:  "Engineering",
		JoiningDate: joined,
	}
}
