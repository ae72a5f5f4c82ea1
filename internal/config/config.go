package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/eventure/eventure-api/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	RateLimit     RateLimitSettings     `yaml:"rate_limit"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Mail          MailSettings          `yaml:"mail"`
	Redis         RedisSettings         `yaml:"redis"`
	Telemetry     TelemetrySettings     `yaml:"telemetry"`
	Jobs          JobSettings           `yaml:"jobs"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV, overwrite"`
	Name        string `yaml:"name" env:"APP_NAME, overwrite"`
	Version     string `yaml:"version" env:"APP_VERSION, overwrite"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Host            string `yaml:"host" env:"DB_HOST, overwrite"`
	Port            int    `yaml:"port" env:"DB_PORT, overwrite"`
	Name            string `yaml:"name" env:"DB_NAME, overwrite"`
	User            string `yaml:"user" env:"DB_USER, overwrite"`
	Password        string `yaml:"password" env:"DB_PASSWORD, overwrite"`
	MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS, overwrite"`
	MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS, overwrite"`
	CreateIfMissing bool   `yaml:"create_if_missing" env:"DB_CREATE_IF_MISSING, overwrite"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE, overwrite"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST, overwrite"`
	Port            int           `yaml:"port" env:"PORT, overwrite"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT, overwrite"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT, overwrite"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT, overwrite"`
}

// JWTSettings contains JWT authentication settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET, overwrite"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY, overwrite"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER, overwrite"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL, overwrite"`
	Format     string `yaml:"format" env:"LOG_FORMAT, overwrite"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS, overwrite"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS, overwrite"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS, overwrite"`
}

// RateLimitSettings throttles the credential and reset endpoints per client IP
type RateLimitSettings struct {
	AuthRequests int           `yaml:"auth_requests" env:"RATE_LIMIT_AUTH_REQUESTS, overwrite"`
	AuthWindow   time.Duration `yaml:"auth_window" env:"RATE_LIMIT_AUTH_WINDOW, overwrite"`
}

// PasswordResetSettings controls reset code lifetime and re-issue suppression
type PasswordResetSettings struct {
	CodeTTL      time.Duration `yaml:"code_ttl" env:"RESET_CODE_TTL, overwrite"`
	ResendWindow time.Duration `yaml:"resend_window" env:"RESET_CODE_RESEND_WINDOW, overwrite"`
}

// MailSettings configures the outbound mail transport.
// An empty SendGridAPIKey selects the logging fallback.
type MailSettings struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY, overwrite"`
	FromName       string `yaml:"from_name" env:"MAIL_FROM_NAME, overwrite"`
	FromAddress    string `yaml:"from_address" env:"MAIL_FROM_ADDRESS, overwrite"`
}

// RedisSettings configures the optional zip lookup cache
type RedisSettings struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR, overwrite"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD, overwrite"`
	DB       int           `yaml:"db" env:"REDIS_DB, overwrite"`
	ZipTTL   time.Duration `yaml:"zip_ttl" env:"REDIS_ZIP_TTL, overwrite"`
}

// TelemetrySettings configures OpenTelemetry tracing
type TelemetrySettings struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT, overwrite"`
}

// JobSettings configures background jobs
type JobSettings struct {
	Enabled              bool          `yaml:"enabled" env:"JOBS_ENABLED, overwrite"`
	StatsRefreshInterval time.Duration `yaml:"stats_refresh_interval" env:"JOBS_STATS_REFRESH_INTERVAL, overwrite"`
	DBProbeInterval      time.Duration `yaml:"db_probe_interval" env:"JOBS_DB_PROBE_INTERVAL, overwrite"`
}

// ConnectionString returns the database connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&clientFoundRows=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
	)
}

// ServerConnectionString returns a DSN without a schema, used to create the database
func (dbs *DatabaseSettings) ServerConnectionString() string {
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}
	return fmt.Sprintf("%s%s@tcp(%s:%d)/", dbs.User, password, dbs.Host, dbs.Port)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// A missing file is fine, everything can come from the environment
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := LoadEnv(context.Background(), config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Host == "" {
		config.Database.Host = constants.DefaultDBHost
	}
	if config.Database.Port == 0 {
		config.Database.Port = constants.DefaultDBPort
	}
	if config.Database.User == "" {
		config.Database.User = constants.DefaultDBUser
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = append([]string(nil), constants.DefaultAllowedOrigins...)
	}

	if config.RateLimit.AuthRequests == 0 {
		config.RateLimit.AuthRequests = constants.DefaultAuthRateLimit
	}
	if config.RateLimit.AuthWindow == 0 {
		config.RateLimit.AuthWindow = constants.DefaultAuthRateLimitWindow
	}

	if config.PasswordReset.CodeTTL == 0 {
		config.PasswordReset.CodeTTL = constants.ResetCodeTTL
	}
	if config.PasswordReset.ResendWindow == 0 {
		config.PasswordReset.ResendWindow = constants.ResetCodeResendWindow
	}

	if config.Mail.FromName == "" {
		config.Mail.FromName = constants.DefaultMailFromName
	}
	if config.Mail.FromAddress == "" {
		config.Mail.FromAddress = constants.DefaultMailFromAddress
	}

	if config.Redis.ZipTTL == 0 {
		config.Redis.ZipTTL = constants.DefaultZipCacheTTL
	}

	if config.Jobs.StatsRefreshInterval == 0 {
		config.Jobs.StatsRefreshInterval = constants.DefaultStatsRefreshInterval
	}
	if config.Jobs.DBProbeInterval == 0 {
		config.Jobs.DBProbeInterval = constants.DefaultDBProbeInterval
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Unknown environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must be set (JWT_SECRET)")
	}
	if config.App.IsProduction() && config.JWT.Secret == "changeme" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if config.Database.Name == "" {
		return fmt.Errorf("database name must be set (DB_NAME)")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.RateLimit.AuthRequests < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	mailMode := constants.MailModeFallback
	if config.Mail.SendGridAPIKey != "" {
		mailMode = constants.MailModeSendGrid
	}

	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("db_password", redact(config.Database.Password)).
		Str("jwt_secret", redact(config.JWT.Secret)).
		Str("log_level", config.Logging.Level).
		Str("mail_mode", mailMode).
		Bool("redis_cache", config.Redis.Addr != "").
		Bool("tracing", config.Telemetry.OTLPEndpoint != "").
		Msg("Configuration loaded")
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return constants.LogRedactedValue
}
