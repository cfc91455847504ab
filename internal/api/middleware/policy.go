package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/metrics"
	"employee-portal/internal/models"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const TargetEmployeeKey = "target_employee"

// Rule is the access requirement of one route. Owned rules operate on the
// employee named by the :id parameter.
type Rule struct {
	Method string
	Route  string
	Roles  []models.Role
	Owned  bool
}

// Policy maps "METHOD route" to its rule.
type Policy map[string]Rule

func NewPolicy(rules ...Rule) Policy {
	p := make(Policy, len(rules))
	for _, r := range rules {
		p[r.Method+" "+r.Route] = r
	}
	return p
}

func (p Policy) Lookup(method, route string) (Rule, bool) {
	r, ok := p[method+" "+route]
	return r, ok
}

func (r Rule) Allows(role models.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// EmployeeRoutes is the access table of the /api/employees endpoints.
var EmployeeRoutes = NewPolicy(
	Rule{Method: http.MethodGet, Route: "/api/employees", Roles: []models.Role{models.RoleAdmin}},
	Rule{Method: http.MethodGet, Route: "/api/employees/:id", Roles: []models.Role{models.RoleAdmin, models.RoleEmployee}, Owned: true},
	Rule{Method: http.MethodPost, Route: "/api/employees", Roles: []models.Role{models.RoleAdmin}},
	Rule{Method: http.MethodPut, Route: "/api/employees/:id", Roles: []models.Role{models.RoleAdmin}},
	Rule{Method: http.MethodPut, Route: "/api/employees/:id/update-credentials", Roles: []models.Role{models.RoleEmployee}, Owned: true},
	Rule{Method: http.MethodDelete, Route: "/api/employees/:id", Roles: []models.Role{models.RoleAdmin}},
)

type EmployeeGetter interface {
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
}

// Authorize enforces policy on the matched route. Routes without a rule are
// denied.
func Authorize(policy Policy, employees EmployeeGetter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			apierror.Abort(c, http.StatusUnauthorized, apierror.TitleUnauthorized, MsgMissingAuthHeader)
			return
		}

		rule, ok := policy.Lookup(c.Request.Method, c.FullPath())
		if !ok {
			metrics.AccessDeniedTotal.WithLabelValues("no_rule").Inc()
			apierror.Abort(c, http.StatusForbidden, apierror.TitleAccessDenied, "Access is denied")
			return
		}

		if !rule.Allows(principal.Role) {
			metrics.AccessDeniedTotal.WithLabelValues("role").Inc()
			apierror.Abort(c, http.StatusForbidden, apierror.TitleAccessDenied, "Forbidden: insufficient permissions")
			return
		}

		if rule.Owned {
			id, err := ParseID(c)
			if err != nil {
				apierror.Abort(c, http.StatusBadRequest, apierror.TitleBadRequest, "Invalid employee ID")
				return
			}

			employee, err := employees.GetEmployee(c.Request.Context(), id)
			if err != nil {
				if errors.Is(err, services.ErrEmployeeNotFound) {
					apierror.Abort(c, http.StatusNotFound, apierror.TitleNotFound, "Employee not found with id: "+c.Param("id"))
					return
				}
				log.Error().
					Err(err).
					Str("request_id", c.GetString(RequestIDKey)).
					Msg("ownership lookup failed")
				apierror.Abort(c, http.StatusInternalServerError, apierror.TitleServerError, "An unexpected error occurred")
				return
			}

			if principal.Role != models.RoleAdmin && employee.AccountID != principal.AccountID {
				metrics.AccessDeniedTotal.WithLabelValues("ownership").Inc()
				apierror.Abort(c, http.StatusForbidden, apierror.TitleAccessDenied, "You can only access your own record")
				return
			}

			c.Set(TargetEmployeeKey, employee)
		}

		c.Next()
	}
}

// ParseID reads the :id route parameter.
func ParseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
