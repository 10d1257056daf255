// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client and the reference backend
type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Server   ServerConfig
	JWT      JWTConfig
	Security SecurityConfig
	Admin    AdminConfig
	Checkout CheckoutConfig
	Receipt  ReceiptConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// APIConfig contains the remote REST API settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls where the signed-in identity is persisted
type SessionConfig struct {
	Store      string // file or redis
	FilePath   string
	StorageKey string
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// ServerConfig contains reference backend HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	TrustedProxies []string
}

// JWTConfig contains token settings used by the reference backend
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost int
}

// AdminConfig seeds the reference backend's admin account. The password is
// stored as a bcrypt hash; scripts/generate_password.go produces one.
type AdminConfig struct {
	Name         string
	Phone        string
	PasswordHash string
}

// CheckoutConfig contains pricing rules applied at checkout
type CheckoutConfig struct {
	Currency              string
	DeliveryFee           float64
	FreeDeliveryThreshold float64
}

// ReceiptConfig contains the company block printed on order receipts
type ReceiptConfig struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Grocery Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "file"),
			FilePath:   getEnv("SESSION_FILE", defaultSessionFile()),
			StorageKey: getEnv("SESSION_STORAGE_KEY", "storefront:session"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),

			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", nil),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "development-only-secret-change-me-please"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 30*24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
		},
		Admin: AdminConfig{
			Name:         getEnv("ADMIN_NAME", "Store Admin"),
			Phone:        getEnv("ADMIN_PHONE", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Checkout: CheckoutConfig{
			Currency:              getEnv("CHECKOUT_CURRENCY", "INR"),
			DeliveryFee:           getEnvAsFloat("CHECKOUT_DELIVERY_FEE", 40),
			FreeDeliveryThreshold: getEnvAsFloat("CHECKOUT_FREE_DELIVERY_THRESHOLD", 500),
		},
		Receipt: ReceiptConfig{
			CompanyName:    getEnv("COMPANY_NAME", "Grocery Storefront"),
			CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
			CompanyPhone:   getEnv("COMPANY_PHONE", ""),
			CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}

	switch c.Session.Store {
	case "file":
		if c.Session.FilePath == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session store")
		}
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis session store")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of file, redis")
	}

	if c.Session.StorageKey == "" {
		return fmt.Errorf("SESSION_STORAGE_KEY is required")
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Admin.Phone != "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required when ADMIN_PHONE is set")
	}

	if c.Checkout.DeliveryFee < 0 || c.Checkout.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("checkout fees cannot be negative")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// DeliveryFeeFor returns the delivery fee charged for the given subtotal
func (c *Config) DeliveryFeeFor(subtotal float64) float64 {
	if c.Checkout.FreeDeliveryThreshold > 0 && subtotal >= c.Checkout.FreeDeliveryThreshold {
		return 0
	}
	return c.Checkout.DeliveryFee
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(dir, "storefront", "session.json")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
