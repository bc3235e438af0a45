package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security" validate:"required"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Workers  WorkersConfig  `mapstructure:"workers"`
}

type ServerConfig struct {
	Port              int             `mapstructure:"port"`
	AllowedOrigins    string          `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration   `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration   `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration   `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration   `mapstructure:"write_timeout"`
	ActionTimeout     time.Duration   `mapstructure:"action_timeout"`
	MirrorStatusCode  bool            `mapstructure:"mirror_status_code"`
	OpenAPIPath       string          `mapstructure:"openapi_path"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenDuration      time.Duration `mapstructure:"token_duration"`
	BCryptCost         int           `mapstructure:"bcrypt_cost"`
	CompanyEmailDomain string        `mapstructure:"company_email_domain"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type WorkersConfig struct {
	SessionSweepSchedule string `mapstructure:"session_sweep_schedule"`
}

const (
	DefaultTokenDuration      = time.Hour
	DefaultCompanyEmailDomain = "@company.com"
	DefaultSessionSweep       = "@every 10m"
	minJWTSecretLength        = 16
)

// LoadConfigFromEnv builds the configuration from plain environment
// variables, as used by container deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ActionTimeout:     getEnvAsDuration("HTTP_ACTION_TIMEOUT", 10*time.Second),
			MirrorStatusCode:  getEnvAsBool("HTTP_MIRROR_STATUS_CODE", false),
			OpenAPIPath:       getEnv("HTTP_OPENAPI_PATH", "./api/openapi.yml"),
			RateLimit: RateLimitConfig{
				RequestsPerSecond: getEnvAsFloat("HTTP_RATE_LIMIT_RPS", 0),
				Burst:             getEnvAsInt("HTTP_RATE_LIMIT_BURST", 0),
			},
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source: BuildPostgresDSN(
				getEnv("DB_HOST", "localhost"),
				getEnvAsInt("DB_PORT", 5432),
				getEnv("DB_DATABASE", "company_directory"),
				getEnv("DB_USERNAME", "postgres"),
				getEnv("DB_PASSWORD", ""),
				getEnv("DB_CHARSET", "UTF8"),
				getEnv("DB_SSLMODE", "disable"),
			),
		},
		Security: SecurityConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			TokenDuration:      getEnvAsDuration("TOKEN_DURATION", DefaultTokenDuration),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 10),
			CompanyEmailDomain: getEnv("COMPANY_EMAIL_DOMAIN", DefaultCompanyEmailDomain),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Workers: WorkersConfig{
			SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", DefaultSessionSweep),
		},
	}
	return cfg
}

// BuildPostgresDSN assembles a keyword/value connection string understood by pgx.
func BuildPostgresDSN(host string, port int, database, user, password, charset, sslmode string) string {
	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("dbname=%s", database),
		fmt.Sprintf("user=%s", user),
	}
	if password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", password))
	}
	if charset != "" {
		parts = append(parts, fmt.Sprintf("client_encoding=%s", charset))
	}
	if sslmode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", sslmode))
	}
	return strings.Join(parts, " ")
}

// ApplyDefaults fills the optional settings left empty by a config file.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.AllowedOrigins == "" {
		c.Server.AllowedOrigins = "*"
	}
	if c.Server.OpenAPIPath == "" {
		c.Server.OpenAPIPath = "./api/openapi.yml"
	}
	if c.Security.TokenDuration <= 0 {
		c.Security.TokenDuration = DefaultTokenDuration
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Security.CompanyEmailDomain == "" {
		c.Security.CompanyEmailDomain = DefaultCompanyEmailDomain
	}
	if c.Workers.SessionSweepSchedule == "" {
		c.Workers.SessionSweepSchedule = DefaultSessionSweep
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare numbers are seconds
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values cannot be negative")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if c.TokenDuration < 0 {
		return errors.New("token_duration cannot be negative")
	}
	if c.CompanyEmailDomain != "" && !strings.HasPrefix(c.CompanyEmailDomain, "@") {
		return errors.New("company_email_domain must start with '@'")
	}
	return nil
}
