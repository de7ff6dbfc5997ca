package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Storage       StorageConfig       `mapstructure:"storage"`
	API           APIConfig           `mapstructure:"api"`
	Client        ClientConfig        `mapstructure:"client"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	BCryptCost          int           `mapstructure:"bcrypt_cost"`
	// DemoLogin accepts any non-empty credentials and signs in the demo user.
	DemoLogin     bool   `mapstructure:"demo_login"`
	DemoUserEmail string `mapstructure:"demo_user_email"`
}

type StorageConfig struct {
	Backend      string   `mapstructure:"backend"`
	UploadDir    string   `mapstructure:"upload_dir"`
	PublicPrefix string   `mapstructure:"public_prefix"`
	MaxFileSize  int64    `mapstructure:"max_file_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
	S3           S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	BaseEndpoint string `mapstructure:"base_endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	PublicURL    string `mapstructure:"public_url"`
}

type APIConfig struct {
	ValidateRequests bool `mapstructure:"validate_requests"`
	DocsEnabled      bool `mapstructure:"docs_enabled"`
}

type ClientConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	SessionDB string        `mapstructure:"session_db"`
	LogFile   string        `mapstructure:"log_file"`
}

type CacheConfig struct {
	StaleTime  time.Duration `mapstructure:"stale_time"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when no file or environment
// override is present.
func Defaults() map[string]any {
	return map[string]any{
		"http_server.port":                 8080,
		"http_server.base_url":             "http://localhost:8080",
		"http_server.allowed_origins":      "*",
		"http_server.read_header_timeout":  5 * time.Second,
		"http_server.read_timeout":         15 * time.Second,
		"http_server.write_timeout":        15 * time.Second,
		"http_server.idle_timeout":         60 * time.Second,
		"database.driver":                  "sqlite",
		"database.source":                  "hr-portal.db",
		"database.max_open_conns":          10,
		"database.max_idle_conns":          5,
		"database.conn_max_lifetime":       30 * time.Minute,
		"database.conn_max_idle_time":      5 * time.Minute,
		"security.jwt_secret":              "change-me-please-change-me-please",
		"security.access_token_duration":   24 * time.Hour,
		"security.bcrypt_cost":             10,
		"security.demo_login":              true,
		"security.demo_user_email":         "ivan.ivanov@example.com",
		"storage.backend":                  "local",
		"storage.upload_dir":               "uploads",
		"storage.public_prefix":            "/uploads",
		"storage.max_file_size":            5 << 20,
		"storage.allowed_types":            []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		"api.validate_requests":            true,
		"api.docs_enabled":                 true,
		"client.base_url":                  "http://localhost:8080",
		"client.timeout":                   0,
		"client.session_db":                "session.db",
		"client.log_file":                  "hr-portal-client.log",
		"cache.stale_time":                 5 * time.Minute,
		"cache.max_entries":                256,
		"observability.logging.level":      "info",
		"observability.logging.format":     "text",
	}
}

// LoadConfigFromEnv builds the configuration from plain environment
// variables, used for container deployments.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Source:          getEnv("DB_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			JWTSecret:           getEnv("JWT_SECRET", ""),
			AccessTokenDuration: getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
			BCryptCost:          getEnvAsInt("BCRYPT_COST", 10),
			DemoLogin:           getEnvAsBool("DEMO_LOGIN", false),
			DemoUserEmail:       getEnv("DEMO_USER_EMAIL", "ivan.ivanov@example.com"),
		},
		Storage: StorageConfig{
			Backend:      getEnv("STORAGE_BACKEND", "local"),
			UploadDir:    getEnv("STORAGE_UPLOAD_DIR", "uploads"),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", "/uploads"),
			MaxFileSize:  int64(getEnvAsInt("STORAGE_MAX_FILE_SIZE", 5<<20)),
			AllowedTypes: strings.Split(getEnv("STORAGE_ALLOWED_TYPES", "image/jpeg,image/png,image/gif,image/webp"), ","),
			S3: S3Config{
				Bucket:       getEnv("S3_BUCKET", ""),
				Region:       getEnv("S3_REGION", "us-east-1"),
				BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				PublicURL:    getEnv("S3_PUBLIC_URL", ""),
			},
		},
		API: APIConfig{
			ValidateRequests: getEnvAsBool("API_VALIDATE_REQUESTS", true),
			DocsEnabled:      getEnvAsBool("API_DOCS_ENABLED", false),
		},
		Client: ClientConfig{
			BaseURL:   getEnv("CLIENT_BASE_URL", "http://localhost:8080"),
			Timeout:   getEnvAsDuration("CLIENT_TIMEOUT", 0),
			SessionDB: getEnv("CLIENT_SESSION_DB", "session.db"),
			LogFile:   getEnv("CLIENT_LOG_FILE", "hr-portal-client.log"),
		},
		Cache: CacheConfig{
			StaleTime:  getEnvAsDuration("CACHE_STALE_TIME", 5*time.Minute),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 256),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Client.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("client config: %v", err))
	}

	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("cache config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration < time.Minute {
		return errors.New("access_token_duration must be at least 1m")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return fmt.Errorf("bcrypt_cost %d out of range", c.BCryptCost)
	}
	if c.DemoLogin && c.DemoUserEmail == "" {
		return errors.New("demo_user_email is required when demo_login is enabled")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case "local":
		if c.UploadDir == "" {
			return errors.New("upload_dir is required for the local backend")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 backend")
		}
		if c.S3.Region == "" {
			return errors.New("s3.region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	if c.MaxFileSize <= 0 {
		return errors.New("max_file_size must be positive")
	}
	return nil
}

func (c *ClientConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if c.SessionDB == "" {
		return errors.New("session_db is required")
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if c.StaleTime < 0 {
		return errors.New("stale_time cannot be negative")
	}
	if c.MaxEntries <= 0 {
		return errors.New("max_entries must be positive")
	}
	return nil
}
