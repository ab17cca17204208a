package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDatabaseURL is the SQLite file used when DATABASE_URL is not set
const DefaultDatabaseURL = "restaurantekishimoto.db"

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	SessionSecret      string
	SessionCookieName  string
	SessionTTL         time.Duration
	ResetTokenSecret   string
	ResetTokenTTL      time.Duration
	PublicBaseURL      string
	Auth0Domain        string
	Auth0Audience      string
	AdminScope         string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSESSender       string
	UploadDir          string
	CORSAllowedOrigins []string
	LogLevel           string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	resetTTL, err := getDuration("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	sessionSecret := getEnv("SESSION_SECRET", "")

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", DefaultDatabaseURL),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		SessionSecret:      sessionSecret,
		SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "kishimoto_session"),
		SessionTTL:         sessionTTL,
		ResetTokenSecret:   getEnv("RESET_TOKEN_SECRET", sessionSecret),
		ResetTokenTTL:      resetTTL,
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AdminScope:         getEnv("ADMIN_SCOPE", "admin:backoffice"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSSESSender:       getEnv("AWS_SES_SENDER", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if !config.IsProduction() && config.SessionSecret == "" {
		log.Printf("SESSION_SECRET not set, using an insecure development secret")
		config.SessionSecret = "kishimoto-dev-secret"
		if config.ResetTokenSecret == "" {
			config.ResetTokenSecret = config.SessionSecret
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.ResetTokenSecret == "" {
		return fmt.Errorf("RESET_TOKEN_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AdminEnabled reports whether the back-office can validate Auth0 tokens
func (c *Config) AdminEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// UsesS3 reports whether product images go to S3 instead of the local disk
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
