package services

import (
	"context"
	"errors"
	"fmt"

	"employee-portal/internal/models"

	"gorm.io/gorm"
)

type EmployeeService struct {
	db              *gorm.DB
	hasher          PasswordHasher
	defaultPassword string
}

// NewEmployeeService returns a service that gives every new employee account
// defaultPassword.
func NewEmployeeService(db *gorm.DB, hasher PasswordHasher, defaultPassword string) *EmployeeService {
	return &EmployeeService{
		db:              db,
		hasher:          hasher,
		defaultPassword: defaultPassword,
	}
}

// EmployeeData holds the business fields of an employee. Update replaces all
// of them.
type EmployeeData struct {
	FirstName   string
	LastName    string
	Email       string
	Salary      float64
	Department  string
	JoiningDate models.Date
}

// ListEmployees returns all employees
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	if err := s.db.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee returns a specific employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeService) FindByAccountID(ctx context.Context, accountID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// CreateEmployee creates the employee and its EMPLOYEE account in one
// transaction. The account's username is the employee's email.
func (s *EmployeeService) CreateEmployee(ctx context.Context, data EmployeeData) (*models.Employee, error) {
	db := s.db.WithContext(ctx)

	// Check if email already exists, either as an employee or as a username
	var count int64
	if err := db.Model(&models.Employee{}).Where("email = ?", data.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}
	if err := db.Model(&models.Account{}).Where("username = ?", data.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashedPassword, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}

	employee := &models.Employee{
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		Salary:      data.Salary,
		Department:  data.Department,
		JoiningDate: data.JoiningDate,
	}
	if employee.JoiningDate.IsZero() {
		employee.JoiningDate = models.Today()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		account := &models.Account{
			Username:     data.Email,
			PasswordHash: hashedPassword,
			Role:         models.RoleEmployee,
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		employee.AccountID = account.ID
		return tx.Create(employee).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return employee, nil
}

// UpdateEmployee overwrites every business field, JoiningDate included.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint, data EmployeeData) (*models.Employee, error) {
	db := s.db.WithContext(ctx)

	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Email != employee.Email {
		// Same rule as CreateEmployee: the email may not belong to another
		// employee or be another account's username.
		var count int64
		if err := db.Model(&models.Employee{}).Where("email = ? AND id != ?", data.Email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
		if err := db.Model(&models.Account{}).Where("username = ? AND id != ?", data.Email, employee.AccountID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
	}

	employee.FirstName = data.FirstName
	employee.LastName = data.LastName
	employee.Email = data.Email
	employee.Salary = data.Salary
	employee.Department = data.Department
	employee.JoiningDate = data.JoiningDate

	if err := db.Save(employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return employee, nil
}

// DeleteEmployee removes the employee and its account. Unknown ids are not
// an error.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Delete(&employee).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, employee.AccountID).Error
	})
}
