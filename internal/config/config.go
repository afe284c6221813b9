package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/database"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

const (
	SequenceStore = "store"
	SequenceRedis = "redis"

	MediaLocal = "local"
	MediaMinio = "minio"
	MediaGCS   = "gcs"
)

// MinioConfig holds the MinIO / S3 compatible media backend settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GCSConfig holds the Google Cloud Storage media backend settings.
type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

// MediaConfig controls how uploaded recipe images are processed and stored.
type MediaConfig struct {
	Backend  string
	Dir      string
	BaseURL  string
	MaxWidth int
	MaxBytes int64
	Minio    MinioConfig
	GCS      GCSConfig
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Env  string `json:"env"`
	Port int    `json:"port"`
	Host string `json:"host"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Database configuration. Driver "mongo" uses MongoURI instead of Database.
	Database      database.DatabaseConfig `json:"-"`
	MongoURI      string                  `json:"-"`
	MongoDatabase string                  `json:"mongo_database"`

	// Security Configuration
	UserJWTSecret  string        `json:"-"`
	ChefJWTSecret  string        `json:"-"`
	AdminJWTSecret string        `json:"-"`
	TokenTTL       time.Duration `json:"token_ttl"`

	// Account number sequence
	SequenceBackend string `json:"sequence_backend"`
	RedisURL        string `json:"-"`

	Media MediaConfig `json:"-"`

	AuthRatePerMinute  int      `json:"auth_rate_per_minute"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
}

// UsesMongo reports whether the document store backend is selected.
func (c *Config) UsesMongo() bool {
	return c.Database.Driver == "mongo" || c.Database.Driver == "mongodb"
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %d, Host: %s, LogLevel: %s, Database: %s, MongoURI: %s, MongoDatabase: %s, "+
		"JWTSecrets: [REDACTED], TokenTTL: %s, SequenceBackend: %s, RedisURL: %s, MediaBackend: %s, AuthRatePerMinute: %d}",
		c.Env, c.Port, c.Host, c.LogLevel, c.Database.String(), maskURL(c.MongoURI), c.MongoDatabase,
		c.TokenTTL, c.SequenceBackend, maskURL(c.RedisURL), c.Media.Backend, c.AuthRatePerMinute)
}

// maskURL masks the password of a connection URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, ok := parsed.User.Password(); ok {
			parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
		}
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttl, err := ParseDuration(GetEnvWithDefault("JWT_EXPIRE", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}

	config := &Config{
		Env:      GetEnvWithDefault("APP_ENV", "development"),
		Port:     port,
		Host:     GetEnvWithDefault("APP_HOST", "localhost"),
		LogLevel: GetEnvWithDefault("LOG_LEVEL", "info"),
		Database: database.DatabaseConfig{
			Driver:   strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
			Host:     GetEnvWithDefault("DB_HOST", "localhost"),
			Port:     GetEnvWithDefault("DB_PORT", "5432"),
			User:     GetEnvWithDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     GetEnvWithDefault("DB_NAME", "recipes"),
			SSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
			Path:     GetEnvWithDefault("DB_PATH", "recipes.sqlite"),
		},
		MongoURI:       GetEnvWithDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  GetEnvWithDefault("MONGO_DATABASE", "recipes"),
		UserJWTSecret:  os.Getenv("USER_JWT_SECRET"),
		ChefJWTSecret:  os.Getenv("CHEF_JWT_SECRET"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		TokenTTL:       ttl,

		SequenceBackend: strings.ToLower(GetEnvWithDefault("SEQUENCE_BACKEND", SequenceStore)),
		RedisURL:        GetEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),

		Media: MediaConfig{
			Backend:  strings.ToLower(GetEnvWithDefault("MEDIA_BACKEND", MediaLocal)),
			Dir:      GetEnvWithDefault("MEDIA_DIR", "uploads"),
			BaseURL:  os.Getenv("MEDIA_BASE_URL"),
			MaxWidth: GetEnvAsType("MEDIA_MAX_WIDTH", 1600),
			MaxBytes: GetEnvAsType[int64]("MEDIA_MAX_BYTES", 5<<20),
			Minio: MinioConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    GetEnvWithDefault("MINIO_BUCKET", "recipes"),
				UseSSL:    GetEnvAsType("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          os.Getenv("GCS_BUCKET"),
				ProjectID:       os.Getenv("GCS_PROJECT_ID"),
				CredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
			},
		},

		AuthRatePerMinute:  GetEnvAsType("AUTH_RATE_PER_MINUTE", 20),
		CORSAllowedOrigins: splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Validate checks the cross field rules that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.Port)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres", "postgresql", "mongo", "mongodb":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mongo)", c.Database.Driver)
	}

	secrets := map[string]string{
		"USER_JWT_SECRET":  c.UserJWTSecret,
		"CHEF_JWT_SECRET":  c.ChefJWTSecret,
		"ADMIN_JWT_SECRET": c.AdminJWTSecret,
	}
	for key, value := range secrets {
		if value == "" {
			return fmt.Errorf("%s environment variable is required", key)
		}
	}
	if c.UserJWTSecret == c.ChefJWTSecret || c.UserJWTSecret == c.AdminJWTSecret || c.ChefJWTSecret == c.AdminJWTSecret {
		return errors.New("USER_JWT_SECRET, CHEF_JWT_SECRET and ADMIN_JWT_SECRET must all differ")
	}
	if c.TokenTTL <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}

	switch c.SequenceBackend {
	case SequenceStore, SequenceRedis:
	default:
		return fmt.Errorf("unsupported SEQUENCE_BACKEND %q (supported: store, redis)", c.SequenceBackend)
	}

	switch c.Media.Backend {
	case MediaLocal, MediaMinio, MediaGCS:
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q (supported: local, minio, gcs)", c.Media.Backend)
	}
	if c.Media.MaxWidth <= 0 || c.Media.MaxBytes <= 0 {
		return errors.New("MEDIA_MAX_WIDTH and MEDIA_MAX_BYTES must be positive")
	}
	if c.AuthRatePerMinute <= 0 {
		return errors.New("AUTH_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// ParseDuration accepts Go durations ("12h") and whole days ("7d").
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
