package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog backend identifiers
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment  string
	Port         string
	LogLevel     string
	AWS          AWSConfig
	Catalog      CatalogConfig
	Database     DatabaseConfig
	Import       ImportConfig
	Notification NotificationConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
}

// AWSConfig holds settings shared by every AWS client
type AWSConfig struct {
	Region string
	// Endpoint overrides the service endpoint (localstack and similar)
	Endpoint string
}

// CatalogConfig selects and names the product/stock tables
type CatalogConfig struct {
	Backend           string
	ProductsTableName string
	StockTableName    string
}

// DatabaseConfig holds the local SQLite catalog configuration
type DatabaseConfig struct {
	ConnectionString string
	MigrationsPath   string
	MaxOpenConns     int
	MaxIdleConns     int
}

// ImportConfig holds the CSV import pipeline configuration
type ImportConfig struct {
	StorageType     string // "s3" or "mock"
	QueueType       string // "sqs" or "mock"
	BucketName      string
	UploadPrefix    string
	ParsedPrefix    string
	UploadURLExpiry time.Duration
	QueueURL        string
}

// NotificationConfig holds the product-created topic configuration
type NotificationConfig struct {
	Type     string // "sns" or "mock"
	TopicARN string
}

// AuthConfig holds the static credential mapping used by the authorizer
type AuthConfig struct {
	Credentials map[string]string
}

// RateLimitConfig holds local server rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("CATALOG_BACKEND", BackendMemory)
	v.SetDefault("PRODUCTS_TABLE_NAME", "products")
	v.SetDefault("STOCK_TABLE_NAME", "stocks")
	v.SetDefault("DB_CONNECTION_STRING", "./data/catalog.db")
	v.SetDefault("DB_MIGRATIONS_PATH", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("STORAGE_TYPE", "mock")
	v.SetDefault("QUEUE_TYPE", "mock")
	v.SetDefault("NOTIFY_TYPE", "mock")
	v.SetDefault("UPLOAD_PREFIX", "uploaded/")
	v.SetDefault("PARSED_PREFIX", "parsed/")
	v.SetDefault("UPLOAD_URL_EXPIRY", "1h")
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	credentials, err := ParseCredentials(v.GetString("AUTH_CREDENTIALS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_CREDENTIALS: %w", err)
	}

	expiry := v.GetDuration("UPLOAD_URL_EXPIRY")
	if expiry <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_URL_EXPIRY: %q", v.GetString("UPLOAD_URL_EXPIRY"))
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		AWS: AWSConfig{
			Region:   v.GetString("AWS_REGION"),
			Endpoint: v.GetString("AWS_ENDPOINT_URL"),
		},
		Catalog: CatalogConfig{
			Backend:           strings.ToLower(v.GetString("CATALOG_BACKEND")),
			ProductsTableName: v.GetString("PRODUCTS_TABLE_NAME"),
			StockTableName:    v.GetString("STOCK_TABLE_NAME"),
		},
		Database: DatabaseConfig{
			ConnectionString: v.GetString("DB_CONNECTION_STRING"),
			MigrationsPath:   v.GetString("DB_MIGRATIONS_PATH"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Import: ImportConfig{
			StorageType:     strings.ToLower(v.GetString("STORAGE_TYPE")),
			QueueType:       strings.ToLower(v.GetString("QUEUE_TYPE")),
			BucketName:      v.GetString("BUCKET_NAME"),
			UploadPrefix:    v.GetString("UPLOAD_PREFIX"),
			ParsedPrefix:    v.GetString("PARSED_PREFIX"),
			UploadURLExpiry: expiry,
			QueueURL:        v.GetString("SQS_QUEUE_URL"),
		},
		Notification: NotificationConfig{
			Type:     strings.ToLower(v.GetString("NOTIFY_TYPE")),
			TopicARN: v.GetString("SNS_TOPIC_ARN"),
		},
		Auth: AuthConfig{
			Credentials: credentials,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

// ParseCredentials parses "user=password,user2=password2" into a username to password map.
// Passwords may themselves contain '='; the first '=' of each pair separates the username.
func ParseCredentials(raw string) (map[string]string, error) {
	credentials := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return credentials, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		username, password, ok := strings.Cut(pair, "=")
		if !ok || username == "" {
			return nil, fmt.Errorf("credential entry %q must be in username=password form", pair)
		}
		credentials[username] = password
	}

	return credentials, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
