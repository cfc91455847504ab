package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"employee-portal/internal/api/routes"
	"employee-portal/internal/config"
	"employee-portal/internal/logger"
	"employee-portal/internal/models"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	configPath := os.Getenv("PORTAL_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initialize %s database: %w", cfg.Database.Type, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain database handle: %w", err)
	}
	defer sqlDB.Close()

	hasher := services.NewBcryptHasher(cfg.Security.BcryptCost)
	tokens, err := services.NewTokenCodec(cfg.JWT.Secret)
	if err != nil {
		return fmt.Errorf("configure token codec: %w", err)
	}
	accounts := services.NewAccountService(db, hasher)
	employees := services.NewEmployeeService(db, hasher, cfg.Employees.DefaultPassword)
	authService := services.NewAuthService(accounts, employees, hasher, tokens)

	if len(cfg.Employees.DefaultPassword) < services.MinPasswordLength {
		log.Warn().Msg("employee default password is shorter than the minimum password length")
	}
	log.Warn().Msg("new employee accounts receive a shared default password; employees should change it with update-credentials")

	// Create default admin if it does not exist yet
	created, err := authService.CreateDefaultUser(ctx, cfg.DefaultUser.Username, cfg.DefaultUser.Password)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create default admin")
	} else if created {
		log.Warn().Str("username", cfg.DefaultUser.Username).Msg("created default admin account with the configured password; change it before production use")
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		Config:    cfg,
		Log:       log,
		DB:        sqlDB,
		Tokens:    tokens,
		Accounts:  accounts,
		Employees: employees,
		Auth:      authService,
	})

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("database", cfg.Database.Type).Msg("starting employee portal")
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
