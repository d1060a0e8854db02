package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Mongo configuration
	MongoURI string
	MongoDB  string

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTExpiry time.Duration

	// S3 configuration
	S3Bucket  string
	AWSRegion string

	// Rate limiting
	RateLimitWindow   time.Duration
	RateLimitRequests int

	// CORS
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance with values from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "recipeshare"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiry:         24 * time.Hour,
		S3Bucket:          getEnv("S3_BUCKET_NAME", "recipe-share-images"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		RateLimitWindow:   time.Minute,
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}

	if window := os.Getenv("RATE_LIMIT_WINDOW"); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
		}
		cfg.RateLimitWindow = d
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
