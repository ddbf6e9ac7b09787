package config

import (
	"os"
	"strconv"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration (group catalog cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// OAuth2 credential lifetimes
	AuthCodeDuration     time.Duration
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	SignupCodeDuration   time.Duration

	// Login surface the authorize endpoint redirects unauthenticated
	// resource owners to, and the public base URL of this service used to
	// resume the flow after login
	AuthClientURL string
	PublicURL     string

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Server configuration
	ServerPort     int
	MigrateOnStart bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	codeDuration, err := time.ParseDuration(getEnv("OAUTH_CODE_DURATION", domain.DefaultAuthCodeDuration.String()))
	if err != nil {
		return nil, err
	}

	accessDuration, err := time.ParseDuration(getEnv("OAUTH_ACCESS_TOKEN_DURATION", domain.DefaultAccessTokenDuration.String()))
	if err != nil {
		return nil, err
	}

	refreshDuration, err := time.ParseDuration(getEnv("OAUTH_REFRESH_TOKEN_DURATION", domain.DefaultRefreshTokenDuration.String()))
	if err != nil {
		return nil, err
	}

	signupDuration, err := time.ParseDuration(getEnv("SIGNUP_CODE_DURATION", "24h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "owner"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "siteauth"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthCodeDuration:     codeDuration,
		AccessTokenDuration:  accessDuration,
		RefreshTokenDuration: refreshDuration,
		SignupCodeDuration:   signupDuration,

		AuthClientURL: getEnv("AUTH_CLIENT_URL", "http://localhost:3000/login"),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:8080"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@localhost"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Site Auth"),

		ServerPort:     getEnvInt("PORT", 8080),
		MigrateOnStart: getEnv("AUTO_MIGRATE", "false") == "true",
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
