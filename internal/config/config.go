package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Security    SecurityConfig    `yaml:"security"`
	Log         LogConfig         `yaml:"log"`
	DefaultUser DefaultUserConfig `yaml:"default_user"`
	Employees   EmployeesConfig   `yaml:"employees"`
}

type ServerConfig struct {
	Host         string        `yaml:"host" env:"PORTAL_HOST, overwrite"`
	Port         int           `yaml:"port" env:"PORTAL_PORT, overwrite"`
	Mode         string        `yaml:"mode" env:"PORTAL_MODE, overwrite"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"PORTAL_READ_TIMEOUT, overwrite"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"PORTAL_WRITE_TIMEOUT, overwrite"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"PORTAL_IDLE_TIMEOUT, overwrite"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"PORTAL_CORS_ORIGINS, overwrite"`
}

type DatabaseConfig struct {
	Type         string         `yaml:"type" env:"PORTAL_DB_TYPE, overwrite"`
	MaxOpenConns int            `yaml:"max_open_conns" env:"PORTAL_DB_MAX_OPEN_CONNS, overwrite"`
	MaxIdleConns int            `yaml:"max_idle_conns" env:"PORTAL_DB_MAX_IDLE_CONNS, overwrite"`
	SQLite       SQLiteConfig   `yaml:"sqlite"`
	MySQL        MySQLConfig    `yaml:"mysql"`
	Postgres     PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"PORTAL_DB_PATH, overwrite"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" env:"PORTAL_MYSQL_HOST, overwrite"`
	Port     int    `yaml:"port" env:"PORTAL_MYSQL_PORT, overwrite"`
	Username string `yaml:"username" env:"PORTAL_MYSQL_USER, overwrite"`
	Password string `yaml:"password" env:"PORTAL_MYSQL_PASSWORD, overwrite"`
	Database string `yaml:"database" env:"PORTAL_MYSQL_DATABASE, overwrite"`
	Charset  string `yaml:"charset" env:"PORTAL_MYSQL_CHARSET, overwrite"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"PORTAL_POSTGRES_HOST, overwrite"`
	Port     int    `yaml:"port" env:"PORTAL_POSTGRES_PORT, overwrite"`
	Username string `yaml:"username" env:"PORTAL_POSTGRES_USER, overwrite"`
	Password string `yaml:"password" env:"PORTAL_POSTGRES_PASSWORD, overwrite"`
	Database string `yaml:"database" env:"PORTAL_POSTGRES_DATABASE, overwrite"`
	SSLMode  string `yaml:"sslmode" env:"PORTAL_POSTGRES_SSLMODE, overwrite"`
}

// JWTConfig holds the process-wide signing secret. Changing it invalidates
// every outstanding token.
type JWTConfig struct {
	Secret string `yaml:"secret" env:"PORTAL_JWT_SECRET, overwrite"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"PORTAL_BCRYPT_COST, overwrite"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PORTAL_LOG_LEVEL, overwrite"`
	Pretty bool   `yaml:"pretty" env:"PORTAL_LOG_PRETTY, overwrite"`
}

type DefaultUserConfig struct {
	Username string `yaml:"username" env:"PORTAL_ADMIN_USERNAME, overwrite"`
	Password string `yaml:"password" env:"PORTAL_ADMIN_PASSWORD, overwrite"`
}

// EmployeesConfig.DefaultPassword is assigned to every account created
// alongside a new employee. It is a known weak default.
type EmployeesConfig struct {
	DefaultPassword string `yaml:"default_password" env:"PORTAL_EMPLOYEE_DEFAULT_PASSWORD, overwrite"`
}

var ErrMissingJWTSecret = errors.New("jwt secret is required")

// Load reads the configuration file and environment variables
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(context.Background(), data, envconfig.OsLookuper())
}

// Parse decodes YAML data, overlays values found through lookuper, fills
// defaults and validates the result.
func Parse(ctx context.Context, data []byte, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = "data/portal.db"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.MySQL.Port == 0 {
		c.Database.MySQL.Port = 3306
	}
	if c.Database.MySQL.Charset == "" {
		c.Database.MySQL.Charset = "utf8mb4"
	}
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = 5432
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = "disable"
	}

	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DefaultUser.Username == "" {
		c.DefaultUser.Username = "admin"
	}
	if c.DefaultUser.Password == "" {
		c.DefaultUser.Password = "123"
	}
	if c.Employees.DefaultPassword == "" {
		c.Employees.DefaultPassword = "123456"
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}

	switch c.Database.Type {
	case "sqlite":
	case "mysql":
		if c.Database.MySQL.Username == "" {
			return fmt.Errorf("MySQL username is required")
		}
		if c.Database.MySQL.Database == "" {
			return fmt.Errorf("MySQL database name is required")
		}
	case "postgres":
		if c.Database.Postgres.Username == "" {
			return fmt.Errorf("Postgres username is required")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("Postgres database name is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	return nil
}
