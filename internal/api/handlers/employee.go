package handlers

import (
	"context"
	"net/http"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/api/middleware"
	"employee-portal/internal/metrics"
	"employee-portal/internal/models"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	CreateEmployee(ctx context.Context, data services.EmployeeData) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, data services.EmployeeData) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}

type CredentialsUpdater interface {
	UpdateCredentials(ctx context.Context, employeeID uint, in services.CredentialsUpdate) (*models.Account, error)
}

type EmployeeHandler struct {
	employees EmployeeStore
	accounts  CredentialsUpdater
}

func NewEmployeeHandler(employees EmployeeStore, accounts CredentialsUpdater) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		accounts:  accounts,
	}
}

type EmployeeRequest struct {
	FirstName   string      `json:"firstName" validate:"required,min=2"`
	LastName    string      `json:"lastName" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Salary      float64     `json:"salary" validate:"min=0"`
	Department  string      `json:"department" validate:"required"`
	JoiningDate models.Date `json:"joiningDate" validate:"omitempty,notfuture"`
}

func (r EmployeeRequest) data() services.EmployeeData {
	return services.EmployeeData{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Salary:      r.Salary,
		Department:  r.Department,
		JoiningDate: r.JoiningDate,
	}
}

// UpdateEmployeeRequest is a full replacement, so the joining date is
// required rather than defaulted.
type UpdateEmployeeRequest struct {
	FirstName   string      `json:"firstName" validate:"required,min=2"`
	LastName    string      `json:"lastName" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Salary      float64     `json:"salary" validate:"min=0"`
	Department  string      `json:"department" validate:"required"`
	JoiningDate models.Date `json:"joiningDate" validate:"required,notfuture"`
}

func (r UpdateEmployeeRequest) data() services.EmployeeData {
	return EmployeeRequest(r).data()
}

type UpdateCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetEmployees returns all employees
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

// GetEmployee returns a specific employee by ID
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	if v, ok := c.Get(middleware.TargetEmployeeKey); ok {
		if employee, ok := v.(*models.Employee); ok {
			c.JSON(http.StatusOK, employee)
			return
		}
	}

	id, ok := employeeID(c)
	if !ok {
		return
	}

	employee, err := h.employees.GetEmployee(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// CreateEmployee creates an employee together with its login account
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.employees.CreateEmployee(c.Request.Context(), req.data())
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics.EmployeeOperationsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee replaces the employee's business fields
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.employees.UpdateEmployee(c.Request.Context(), id, req.data())
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics.EmployeeOperationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee deletes an employee and its account. Unknown ids also
// answer 204.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	if err := h.employees.DeleteEmployee(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	metrics.EmployeeOperationsTotal.WithLabelValues("delete").Inc()
	c.Status(http.StatusNoContent)
}

// UpdateCredentials changes the caller's own username and/or password
func (h *EmployeeHandler) UpdateCredentials(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req UpdateCredentialsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.accounts.UpdateCredentials(c.Request.Context(), id, services.CredentialsUpdate{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics.EmployeeOperationsTotal.WithLabelValues("update_credentials").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Credentials updated successfully",
		"username": account.Username,
	})
}

func employeeID(c *gin.Context) (uint, bool) {
	id, err := middleware.ParseID(c)
	if err != nil {
		apierror.Abort(c, http.StatusBadRequest, apierror.TitleBadRequest, "Invalid employee ID")
		return 0, false
	}
	return id, true
}
