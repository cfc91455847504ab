package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"employee-portal/internal/models"

	"gorm.io/gorm"
)

const MinPasswordLength = 6

type AccountService struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewAccountService(db *gorm.DB, hasher PasswordHasher) *AccountService {
	return &AccountService{
		db:     db,
		hasher: hasher,
	}
}

// FindByUsername returns ErrAccountNotFound when no account has username.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount hashes password and stores a new account.
func (s *AccountService) CreateAccount(ctx context.Context, username, password string, role models.Role) (*models.Account, error) {
	if _, err := s.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	return account, nil
}

type CredentialsUpdate struct {
	Username string
	Password string
}

// UpdateCredentials changes the username and/or password of the account
// linked to employee employeeID. The employee's email is left untouched.
func (s *AccountService) UpdateCredentials(ctx context.Context, employeeID uint, in CredentialsUpdate) (*models.Account, error) {
	if in.Username == "" && in.Password == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"username": "Provide a new username or password",
			"password": "Provide a new username or password",
		}}
	}
	if in.Password != "" && utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	account, err := s.GetAccount(ctx, employee.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrProfileInconsistent
		}
		return nil, err
	}

	if in.Username != "" && in.Username != account.Username {
		// Check if username is taken by another account
		var existing models.Account
		err := s.db.WithContext(ctx).Where("username = ? AND id != ?", in.Username, account.ID).First(&existing).Error
		if err == nil {
			return nil, ErrUsernameExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account.Username = in.Username
	}

	if in.Password != "" {
		hashedPassword, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hashedPassword
	}

	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	return account, nil
}
