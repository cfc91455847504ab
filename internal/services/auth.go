package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"employee-portal/internal/models"
)

type AuthService struct {
	accounts  *AccountService
	employees *EmployeeService
	hasher    PasswordHasher
	tokens    *TokenCodec

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(accounts *AccountService, employees *EmployeeService, hasher PasswordHasher, tokens *TokenCodec) *AuthService {
	return &AuthService{
		accounts:  accounts,
		employees: employees,
		hasher:    hasher,
		tokens:    tokens,
	}
}

// LoginResult.ID is the employee id for EMPLOYEE accounts and the account id
// for ADMIN accounts.
type LoginResult struct {
	Token   string
	ID      string
	Account *models.Account
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials after a full hash comparison.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.hasher.Verify(s.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	id := strconv.FormatUint(uint64(account.ID), 10)
	if account.Role == models.RoleEmployee {
		employee, err := s.employees.FindByAccountID(ctx, account.ID)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProfileInconsistent, account.Username)
			}
			return nil, err
		}
		id = strconv.FormatUint(uint64(employee.ID), 10)
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:   token,
		ID:      id,
		Account: account,
	}, nil
}

// CreateDefaultUser creates the admin account if no account has its username
func (s *AuthService) CreateDefaultUser(ctx context.Context, username, password string) (bool, error) {
	if _, err := s.accounts.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrAccountNotFound) {
		return false, err
	}

	if _, err := s.accounts.CreateAccount(ctx, username, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("employee-portal-timing-equalizer")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
