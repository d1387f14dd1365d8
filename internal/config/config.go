package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Email providers
const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string        `yaml:"port" env:"SERVER_PORT"`
		Mode         string        `yaml:"mode" env:"SERVER_MODE"`
		StoragePath  string        `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicURL    string        `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Auth verifies bearer tokens issued by the external identity provider.
	// An empty secret disables verification.
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		Issuer    string `yaml:"issuer" env:"AUTH_ISSUER"`
	} `yaml:"auth"`

	Signing struct {
		Secret string        `yaml:"secret" env:"SIGNING_SECRET"`
		URLTTL time.Duration `yaml:"url_ttl" env:"SIGNING_URL_TTL"`
	} `yaml:"signing"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	AI struct {
		APIKey    string        `yaml:"api_key" env:"GEMINI_API_KEY"`
		Model     string        `yaml:"model" env:"GEMINI_MODEL"`
		BaseURL   string        `yaml:"base_url" env:"GEMINI_BASE_URL"`
		Timeout   time.Duration `yaml:"timeout" env:"AI_TIMEOUT"`
		RateLimit float64       `yaml:"rate_limit" env:"AI_RATE_LIMIT"`
		Burst     int           `yaml:"burst" env:"AI_RATE_BURST"`
	} `yaml:"ai"`

	Notifications struct {
		Timeout time.Duration `yaml:"timeout" env:"NOTIFY_TIMEOUT"`

		Email struct {
			Provider     string `yaml:"provider" env:"EMAIL_PROVIDER"`
			APIKey       string `yaml:"api_key" env:"RESEND_API_KEY"`
			FromEmail    string `yaml:"from_email" env:"RESEND_FROM_EMAIL"`
			BaseURL      string `yaml:"base_url" env:"RESEND_BASE_URL"`
			SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
			SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
			SMTPUsername string `yaml:"smtp_username" env:"SMTP_USERNAME"`
			SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		} `yaml:"email"`

		Twilio struct {
			AccountSID  string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
			AuthToken   string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
			PhoneNumber string `yaml:"phone_number" env:"TWILIO_PHONE_NUMBER"`
			BaseURL     string `yaml:"base_url" env:"TWILIO_BASE_URL"`
		} `yaml:"twilio"`

		Telegram struct {
			BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
			BaseURL  string `yaml:"base_url" env:"TELEGRAM_BASE_URL"`
		} `yaml:"telegram"`
	} `yaml:"notifications"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine: defaults plus environment are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.ReadTimeout = 10 * time.Second
	// AI calls and page fetches can take a while
	config.Server.WriteTimeout = 90 * time.Second

	config.Storage.Driver = StorageDriverPostgres

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "agentcommand"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Auth.Issuer = "agentcommand"

	config.Signing.URLTTL = 15 * time.Minute

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.AI.Model = "gemini-flash-latest"
	config.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	config.AI.Timeout = 60 * time.Second
	config.AI.RateLimit = 2
	config.AI.Burst = 5

	config.Notifications.Timeout = 15 * time.Second
	config.Notifications.Email.Provider = EmailProviderResend
	config.Notifications.Email.FromEmail = "onboarding@resend.dev"
	config.Notifications.Email.BaseURL = "https://api.resend.com"
	config.Notifications.Email.SMTPPort = 587
	config.Notifications.Twilio.BaseURL = "https://api.twilio.com"
	config.Notifications.Telegram.BaseURL = "https://api.telegram.org"
}

// validateConfig checks structural settings only. Provider credentials are
// optional here and checked by the code path that needs them.
func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case StorageDriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch strings.ToLower(config.Notifications.Email.Provider) {
	case EmailProviderResend, EmailProviderSMTP:
	default:
		return fmt.Errorf("unknown email provider %q", config.Notifications.Email.Provider)
	}

	if config.Signing.URLTTL <= 0 {
		return fmt.Errorf("signing url_ttl must be positive")
	}

	if config.AI.RateLimit < 0 || config.AI.Burst < 0 {
		return fmt.Errorf("ai rate limit and burst must not be negative")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// BaseURL is the externally reachable address used to build signed file URLs
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}
