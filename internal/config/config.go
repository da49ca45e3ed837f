package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends accepted by SESSION_STORE.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreBolt     = "bolt"
	StoreMemory   = "memory"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string           `yaml:"app_name" validate:"required"`
	Environment string           `yaml:"environment"`
	HTTP        HTTPConfig       `yaml:"http"`
	Auth        AuthConfig       `yaml:"auth"`
	Store       StoreConfig      `yaml:"store"`
	Database    DatabaseConfig   `yaml:"database"`
	Redis       RedisConfig      `yaml:"redis"`
	Bolt        BoltConfig       `yaml:"bolt"`
	Context     ContextConfig    `yaml:"context"`
	Logger      LoggerConfig     `yaml:"logger"`
	Migrations  MigrationsConfig `yaml:"migrations"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxConn      int           `yaml:"max_conn" validate:"gte=0"`
}

// AuthConfig holds the operator credential and session lifetime. Password and
// PasswordHash are alternatives; the hash wins when both are set.
type AuthConfig struct {
	Username       string        `yaml:"username" validate:"required"`
	Password       string        `yaml:"password" validate:"required_without=PasswordHash"`
	PasswordHash   string        `yaml:"password_hash" validate:"required_without=Password"`
	SessionTimeout time.Duration `yaml:"session_timeout" validate:"gt=0"`
}

type StoreConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=redis postgres bolt memory"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gte=0"`
	// Retention keeps expired Redis keys around long enough to report "Session expired".
	Retention time.Duration `yaml:"retention" validate:"gte=0"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	SSLMode         string        `yaml:"ssl_mode"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BoltConfig struct {
	Path string `yaml:"path"`
}

type ContextConfig struct {
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding" validate:"oneof=json console"`
	File     string `yaml:"file"`
}

type MigrationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns the configuration used when neither a file nor the
// environment provides a value. Operator credentials have no default.
func Defaults() *Config {
	return &Config{
		AppName:     "session-auth",
		Environment: "development",
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Auth: AuthConfig{
			SessionTimeout: 8 * time.Hour,
		},
		Store: StoreConfig{
			Backend:       StoreRedis,
			SweepInterval: 10 * time.Minute,
			Retention:     24 * time.Hour,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			Name:            "auth_db",
			User:            "auth_user",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			MaxConnLifetime: time.Hour,
			SSLMode:         "disable",
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379",
		},
		Bolt: BoltConfig{
			Path: "./data/sessions.db",
		},
		Context: ContextConfig{
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "json",
		},
		Migrations: MigrationsConfig{
			Enabled: true,
			Path:    "./assets/migrations",
		},
	}
}

// Load reads configuration from an optional YAML file (CONFIG_FILE), then
// environment variables (optionally .env), and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	env := &envReader{}
	c.AppName = getString("APP_NAME", c.AppName)
	c.Environment = getString("APP_ENV", c.Environment)

	c.HTTP.Host = getString("SERVER_HOST", c.HTTP.Host)
	c.HTTP.Port = getString("SERVER_PORT", c.HTTP.Port)
	c.HTTP.ReadTimeout = env.duration("SERVER_READ_TIMEOUT", c.HTTP.ReadTimeout)
	c.HTTP.WriteTimeout = env.duration("SERVER_WRITE_TIMEOUT", c.HTTP.WriteTimeout)
	c.HTTP.IdleTimeout = env.duration("SERVER_IDLE_TIMEOUT", c.HTTP.IdleTimeout)
	c.HTTP.MaxConn = env.int("SERVER_MAX_CONN", c.HTTP.MaxConn)

	c.Auth.Username = getString("OPERATOR_USERNAME", c.Auth.Username)
	c.Auth.Password = getString("OPERATOR_PASSWORD", c.Auth.Password)
	c.Auth.PasswordHash = getString("OPERATOR_PASSWORD_HASH", c.Auth.PasswordHash)
	c.Auth.SessionTimeout = env.duration("SESSION_TIMEOUT", c.Auth.SessionTimeout)

	c.Store.Backend = getString("SESSION_STORE", c.Store.Backend)
	c.Store.SweepInterval = env.duration("SESSION_SWEEP_INTERVAL", c.Store.SweepInterval)
	c.Store.Retention = env.duration("SESSION_RETENTION", c.Store.Retention)

	c.Database.URL = getString("DATABASE_URL", c.Database.URL)
	c.Database.Host = getString("DB_HOST", c.Database.Host)
	c.Database.Port = getString("DB_PORT", c.Database.Port)
	c.Database.Name = getString("DB_NAME", c.Database.Name)
	c.Database.User = getString("DB_USER", c.Database.User)
	c.Database.Password = getString("DB_PASSWORD", c.Database.Password)
	c.Database.MaxOpenConns = env.int("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = env.int("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxConnLifetime = env.duration("DB_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.SSLMode = getString("DB_SSLMODE", c.Database.SSLMode)

	c.Redis.URL = getString("REDIS_URL", c.Redis.URL)
	c.Redis.Password = getString("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = env.int("REDIS_DB", c.Redis.DB)

	c.Bolt.Path = getString("BOLTDB_PATH", c.Bolt.Path)

	c.Context.RequestTimeout = env.duration("REQUEST_TIMEOUT_SECONDS", c.Context.RequestTimeout)
	c.Context.ShutdownTimeout = env.duration("SHUTDOWN_TIMEOUT_SECONDS", c.Context.ShutdownTimeout)

	c.Logger.Level = getString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Encoding = getString("LOG_ENCODING", c.Logger.Encoding)
	c.Logger.File = getString("LOG_FILE", c.Logger.File)

	c.Migrations.Enabled = env.bool("RUN_MIGRATIONS", c.Migrations.Enabled)
	c.Migrations.Path = getString("MIGRATIONS_PATH", c.Migrations.Path)

	if err := errors.Join(env.errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// envReader parses typed environment values and collects every malformed one
// so that Load reports them together instead of falling back silently.
type envReader struct {
	errs []error
}

func (e *envReader) fail(key, val, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", key, val, kind))
}

func (e *envReader) int(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		e.fail(key, val, "integer")
		return fallback
	}
	return parsed
}

func (e *envReader) bool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		e.fail(key, val, "boolean")
		return fallback
	}
	return parsed
}

// duration accepts Go duration strings ("90s", "8h") and bare integers as seconds.
func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second
	}
	e.fail(key, val, "duration")
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
