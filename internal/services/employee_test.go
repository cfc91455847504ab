package services

import (
	"context"
	"errors"
	"testing"

	"employee-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type EmployeeServiceSuite struct {
	suite.Suite
	ctx context.Context
	s   *testServices
}

func (st *EmployeeServiceSuite) SetupTest() {
	st.ctx = context.Background()
	st.s = newTestServices(st.T())
}

func TestEmployeeServiceSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceSuite))
}

func (st *EmployeeServiceSuite) countPairs(email string) (accounts, employees int64) {
	st.Require().NoError(st.s.db.Model(&models.Account{}).Where("username = ?", email).Count(&accounts).Error)
	st.Require().NoError(st.s.db.Model(&models.Employee{}).Where("email = ?", email).Count(&employees).Error)
	return accounts, employees
}

func (st *EmployeeServiceSuite) TestCreateLinksAccount() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("ann@example.com"))
	st.Require().NoError(err)
	st.NotZero(emp.ID)
	st.NotZero(emp.AccountID)

	account, err := st.s.accounts.GetAccount(st.ctx, emp.AccountID)
	st.Require().NoError(err)
	st.Equal("ann@example.com", account.Username)
	st.Equal(models.RoleEmployee, account.Role)
	st.True(st.s.hasher.Verify(account.PasswordHash, testDefaultPassword))

	found, err := st.s.employees.FindByAccountID(st.ctx, account.ID)
	st.Require().NoError(err)
	st.Equal(emp.ID, found.ID)
}

func (st *EmployeeServiceSuite) TestCreateDefaultsJoiningDate() {
	data := employeeData("today@example.com")
	data.JoiningDate = models.Date{}

	emp, err := st.s.employees.CreateEmployee(st.ctx, data)
	st.Require().NoError(err)
	st.Equal(models.Today().String(), emp.JoiningDate.String())

	loaded, err := st.s.employees.GetEmployee(st.ctx, emp.ID)
	st.Require().NoError(err)
	st.Equal(models.Today().String(), loaded.JoiningDate.String())
}

func (st *EmployeeServiceSuite) TestCreateDuplicateEmail() {
	_, err := st.s.employees.CreateEmployee(st.ctx, employeeData("dup@example.com"))
	st.Require().NoError(err)

	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("dup@example.com"))
	st.ErrorIs(err, ErrEmailExists)

	accounts, employees := st.countPairs("dup@example.com")
	st.Equal(int64(1), accounts)
	st.Equal(int64(1), employees)
}

func (st *EmployeeServiceSuite) TestCreateEmailTakenByUsername() {
	_, err := st.s.accounts.CreateAccount(st.ctx, "taken@example.com", "whatever", models.RoleAdmin)
	st.Require().NoError(err)

	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("taken@example.com"))
	st.ErrorIs(err, ErrEmailExists)

	_, employees := st.countPairs("taken@example.com")
	st.Zero(employees)
}

func (st *EmployeeServiceSuite) TestCreateRollsBackAccount() {
	err := st.s.db.Callback().Create().Before("gorm:create").Register("test:fail_employee", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "employees" {
			tx.AddError(errors.New("simulated employee insert failure"))
		}
	})
	st.Require().NoError(err)

	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("half@example.com"))
	st.Error(err)

	accounts, employees := st.countPairs("half@example.com")
	st.Zero(accounts)
	st.Zero(employees)
}

func (st *EmployeeServiceSuite) TestUpdateReplacesFields() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("old@example.com"))
	st.Require().NoError(err)

	joined, _ := models.ParseDate("2019-09-01")
	updated, err := st.s.employees.UpdateEmployee(st.ctx, emp.ID, EmployeeData{
		FirstName:   "New",
		LastName:    "Name",
		Email:       "new@example.com",
		Salary:      0,
		Department:  "Sales",
		JoiningDate: joined,
	})
	st.Require().NoError(err)

	loaded, err := st.s.employees.GetEmployee(st.ctx, emp.ID)
	st.Require().NoError(err)
	st.Equal(updated.ID, loaded.ID)
	st.Equal("New", loaded.FirstName)
	st.Equal("Name", loaded.LastName)
	st.Equal("new@example.com", loaded.Email)
	st.Equal(float64(0), loaded.Salary)
	st.Equal("Sales", loaded.Department)
	st.Equal("2019-09-01", loaded.JoiningDate.String())
	st.Equal(emp.AccountID, loaded.AccountID)

	// the account username is not touched by a record update
	account, err := st.s.accounts.GetAccount(st.ctx, emp.AccountID)
	st.Require().NoError(err)
	st.Equal("old@example.com", account.Username)
}

func (st *EmployeeServiceSuite) TestUpdateErrors() {
	_, err := st.s.employees.UpdateEmployee(st.ctx, 9999, employeeData("x@example.com"))
	st.ErrorIs(err, ErrEmployeeNotFound)

	a, err := st.s.employees.CreateEmployee(st.ctx, employeeData("a@example.com"))
	st.Require().NoError(err)
	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("b@example.com"))
	st.Require().NoError(err)

	_, err = st.s.employees.UpdateEmployee(st.ctx, a.ID, employeeData("b@example.com"))
	st.ErrorIs(err, ErrEmailExists)
}

func (st *EmployeeServiceSuite) TestUpdateReplacesJoiningDate() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("dated@example.com"))
	st.Require().NoError(err)
	st.Require().False(emp.JoiningDate.IsZero())

	data := employeeData("dated@example.com")
	data.JoiningDate = models.Date{}
	updated, err := st.s.employees.UpdateEmployee(st.ctx, emp.ID, data)
	st.Require().NoError(err)
	st.True(updated.JoiningDate.IsZero())

	loaded, err := st.s.employees.GetEmployee(st.ctx, emp.ID)
	st.Require().NoError(err)
	st.True(loaded.JoiningDate.IsZero(), "stored date must not survive a full replacement, got %s", loaded.JoiningDate)
}

func (st *EmployeeServiceSuite) TestUpdateEmailTakenByUsername() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("mover@example.com"))
	st.Require().NoError(err)
	_, err = st.s.accounts.CreateAccount(st.ctx, "boss@example.com", "whatever", models.RoleAdmin)
	st.Require().NoError(err)

	_, err = st.s.employees.UpdateEmployee(st.ctx, emp.ID, employeeData("boss@example.com"))
	st.ErrorIs(err, ErrEmailExists)

	loaded, err := st.s.employees.GetEmployee(st.ctx, emp.ID)
	st.Require().NoError(err)
	st.Equal("mover@example.com", loaded.Email)
}

func (st *EmployeeServiceSuite) TestUpdateEmailMatchingOwnUsername() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("self@example.com"))
	st.Require().NoError(err)

	_, err = st.s.employees.UpdateEmployee(st.ctx, emp.ID, employeeData("renamed@example.com"))
	st.Require().NoError(err)

	// the linked account still has the old email as its username
	_, err = st.s.employees.UpdateEmployee(st.ctx, emp.ID, employeeData("self@example.com"))
	st.NoError(err)
}

func (st *EmployeeServiceSuite) TestDelete() {
	emp, err := st.s.employees.CreateEmployee(st.ctx, employeeData("gone@example.com"))
	st.Require().NoError(err)

	st.Require().NoError(st.s.employees.DeleteEmployee(st.ctx, emp.ID))

	_, err = st.s.employees.GetEmployee(st.ctx, emp.ID)
	st.ErrorIs(err, ErrEmployeeNotFound)
	_, err = st.s.accounts.GetAccount(st.ctx, emp.AccountID)
	st.ErrorIs(err, ErrAccountNotFound)

	// unknown ids are a silent success
	st.NoError(st.s.employees.DeleteEmployee(st.ctx, emp.ID))
	st.NoError(st.s.employees.DeleteEmployee(st.ctx, 424242))
}

func (st *EmployeeServiceSuite) TestListEmployees() {
	list, err := st.s.employees.ListEmployees(st.ctx)
	st.Require().NoError(err)
	st.NotNil(list)
	st.Empty(list)

	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("one@example.com"))
	st.Require().NoError(err)
	_, err = st.s.employees.CreateEmployee(st.ctx, employeeData("two@example.com"))
	st.Require().NoError(err)

	list, err = st.s.employees.ListEmployees(st.ctx)
	st.Require().NoError(err)
	st.Len(list, 2)
	st.Equal("one@example.com", list[0].Email)
}

func TestAccountService_UpdateCredentials(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	emp, err := s.employees.CreateEmployee(ctx, employeeData("worker@example.com"))
	require.NoError(t, err)
	other, err := s.employees.CreateEmployee(ctx, employeeData("other@example.com"))
	require.NoError(t, err)

	before, err := s.accounts.GetAccount(ctx, emp.AccountID)
	require.NoError(t, err)

	t.Run("short password rejected and hash unchanged", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{Password: "12345"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")

		after, err := s.accounts.GetAccount(ctx, emp.AccountID)
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("nothing supplied", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("six character password works for login", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{Password: "abcdef"})
		require.NoError(t, err)

		_, err = s.auth.Login(ctx, "worker@example.com", "abcdef")
		assert.NoError(t, err)
		_, err = s.auth.Login(ctx, "worker@example.com", testDefaultPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("username collision", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{Username: "other@example.com"})
		assert.ErrorIs(t, err, ErrUsernameExists)

		otherAccount, err := s.accounts.GetAccount(ctx, other.AccountID)
		require.NoError(t, err)
		assert.Equal(t, "other@example.com", otherAccount.Username)
	})

	t.Run("same username is not a collision", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{Username: "worker@example.com"})
		assert.NoError(t, err)
	})

	t.Run("username change keeps email", func(t *testing.T) {
		account, err := s.accounts.UpdateCredentials(ctx, emp.ID, CredentialsUpdate{Username: "w.renamed"})
		require.NoError(t, err)
		assert.Equal(t, "w.renamed", account.Username)
		assert.Equal(t, emp.AccountID, account.ID)

		reloaded, err := s.employees.GetEmployee(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, "worker@example.com", reloaded.Email)
		assert.Equal(t, emp.AccountID, reloaded.AccountID)

		result, err := s.auth.Login(ctx, "w.renamed", "abcdef")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := s.accounts.UpdateCredentials(ctx, 9999, CredentialsUpdate{Password: "abcdef"})
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}
