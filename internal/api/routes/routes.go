package routes

import (
	"net/http"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/api/handlers"
	"employee-portal/internal/api/middleware"
	"employee-portal/internal/config"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps carries everything the HTTP layer needs. main builds it once.
type Deps struct {
	Config    *config.Config
	Log       zerolog.Logger
	DB        handlers.Pinger
	Tokens    *services.TokenCodec
	Accounts  *services.AccountService
	Employees *services.EmployeeService
	Auth      *services.AuthService
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	employeeHandler := handlers.NewEmployeeHandler(deps.Employees, deps.Accounts)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Log)

	// Middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.Config.Server.CORSOrigins))
	r.Use(middleware.ErrorHandler(deps.Log))
	r.Use(middleware.Authenticate(deps.Tokens, deps.Accounts, deps.Log))

	// Public routes
	r.GET("/health", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		employees := api.Group("/employees")
		employees.Use(middleware.Authorize(middleware.EmployeeRoutes, deps.Employees, deps.Log))
		{
			employees.GET("", employeeHandler.GetEmployees)
			employees.GET("/:id", employeeHandler.GetEmployee)
			employees.POST("", employeeHandler.CreateEmployee)
			employees.PUT("/:id", employeeHandler.UpdateEmployee)
			employees.PUT("/:id/update-credentials", employeeHandler.UpdateCredentials)
			employees.DELETE("/:id", employeeHandler.DeleteEmployee)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierror.Abort(c, http.StatusNotFound, apierror.TitleNotFound, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path)
	})
}
