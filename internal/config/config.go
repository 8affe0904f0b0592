package config

import (
	"errors"  // For required-variable errors
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Default values used when the environment does not provide one
const (
	DefaultAppPort         = "8000" // Default HTTP port
	DefaultTokenTTLMinutes = 20     // Default access token lifetime
)

// Config holds the application configuration
type Config struct {
	AppPort      string        // Application port
	DBUser       string        // Database user
	DBPassword   string        // Database password
	DBHost       string        // Database host
	DBPort       string        // Database port
	DBName       string        // Database name
	JWTSecret    string        // JWT signing secret
	JWTAlgorithm string        // JWT signing algorithm name (HS256, HS384, HS512)
	TokenTTL     time.Duration // Access token lifetime
	RedisAddr    string        // Redis server address, empty disables idempotency keys
	RedisPass    string        // Redis password
	RedisDB      int           // Redis database number
	LogLevel     string        // Logrus level name
	IsProd       bool          // Is production environment
}

// LoadConfig loads configuration from environment variables.
// The signing secret and algorithm are mandatory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ttlMinutes, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", strconv.Itoa(DefaultTokenTTLMinutes)))
	if err != nil || ttlMinutes <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_MINUTES must be a positive integer")
	}
	cfg := &Config{
		AppPort:      getEnv("APP_PORT", DefaultAppPort),      // Application port
		DBUser:       os.Getenv("DB_USER"),                    // Database user
		DBPassword:   os.Getenv("DB_PASSWORD"),                // Database password
		DBHost:       os.Getenv("DB_HOST"),                    // Database host
		DBPort:       os.Getenv("DB_PORT"),                    // Database port
		DBName:       os.Getenv("DB_NAME"),                    // Database name
		JWTSecret:    os.Getenv("JWT_SECRET"),                 // JWT secret key
		JWTAlgorithm: os.Getenv("JWT_ALGORITHM"),              // JWT algorithm
		TokenTTL:     time.Duration(ttlMinutes) * time.Minute, // Token lifetime
		RedisAddr:    os.Getenv("REDIS_ADDR"),                 // Redis server address
		RedisPass:    os.Getenv("REDIS_PASS"),                 // Redis password
		RedisDB:      redisDB,                                 // Redis database number
		LogLevel:     getEnv("LOG_LEVEL", "info"),             // Log level
		IsProd:       os.Getenv("IS_PROD") == "true",          // Is production environment
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings the server cannot run without are present
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTAlgorithm == "" {
		return errors.New("JWT_ALGORITHM is required")
	}
	return nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the variable value or defaultVal when it is not set
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
