package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string `toml:"server_host"`
	ServerPort string `toml:"server_port"`

	// Store selection; TableName names the collection in every backend
	StoreBackend string `toml:"store_backend"`
	TableName    string `toml:"table_name"`

	// Database configuration (postgres and sqlite backends)
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBSSLMode  string `toml:"db_ssl_mode"`
	SQLitePath string `toml:"sqlite_path"`

	// Redis configuration (redis backend and rate limiting)
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisURL      string `toml:"redis_url"`

	// AWS configuration (dynamodb backend and exports)
	AWSRegion        string `toml:"aws_region"`
	DynamoDBEndpoint string `toml:"dynamodb_endpoint"`
	S3BucketName     string `toml:"s3_bucket_name"`
	S3Prefix         string `toml:"s3_prefix"`

	// HTTP behaviour
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`

	LogLevel string `toml:"log_level"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		ServerHost:         "0.0.0.0",
		ServerPort:         "8080",
		StoreBackend:       "sqlite",
		TableName:          "Recipes",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "recipes",
		DBSSLMode:          "disable",
		SQLitePath:         "recipes.db",
		RedisPort:          "6379",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		LogLevel:           "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional TOML file
// named by CONFIG_FILE, environment variables and Docker secrets, in that
// order of precedence (later wins).
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if GetEnvironment().ReadsSecrets() {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnv overrides fields whose environment variable is set
func loadEnv(cfg *Config) error {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.StoreBackend, "STORE_BACKEND")
	setString(&cfg.TableName, "TABLE_NAME")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.DynamoDBEndpoint, "DYNAMODB_ENDPOINT")
	setString(&cfg.S3BucketName, "S3_BUCKET_NAME")
	setString(&cfg.S3Prefix, "S3_PREFIX")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if err := setInt(&cfg.RedisDB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setInt(&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE"); err != nil {
		return err
	}
	return nil
}

// loadSecrets fills passwords from Docker secrets when not set otherwise
func loadSecrets(cfg *Config) {
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.DBUser == "" {
		cfg.DBUser = readSecret("db_user")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the postgres backend
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisConfigured reports whether a Redis server has been pointed at
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != "" || c.StoreBackend == "redis"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
