package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recipe-carousel/config.yaml",
}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Listing   ListingConfig   `koanf:"listing"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Storage   StorageConfig   `koanf:"storage"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver        string        `koanf:"driver"`
	Host          string        `koanf:"host"`
	Port          string        `koanf:"port"`
	User          string        `koanf:"user"`
	Password      string        `koanf:"password"`
	Name          string        `koanf:"name"`
	SSLMode       string        `koanf:"ssl_mode"`
	Path          string        `koanf:"path"` // sqlite only
	MigrationsDir string        `koanf:"migrations_dir"`
	MaxOpenConns  int           `koanf:"max_open_conns"`
	MaxIdleConns  int           `koanf:"max_idle_conns"`
	ConnLifetime  time.Duration `koanf:"conn_lifetime"`
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	URL      string        `koanf:"url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type ListingConfig struct {
	// DefaultPageSize applies when a request carries no page size.
	DefaultPageSize int `koanf:"default_page_size"`
	FeaturedLimit   int `koanf:"featured_limit"`
	SearchPageSize  int `koanf:"search_page_size"`
}

type RateLimitConfig struct {
	FeedbackLimit  int           `koanf:"feedback_limit"`
	FeedbackWindow time.Duration `koanf:"feedback_window"`
}

type StorageConfig struct {
	S3Bucket      string        `koanf:"s3_bucket"`
	S3Region      string        `koanf:"s3_region"`
	PublicBaseURL string        `koanf:"public_base_url"`
	PresignTTL    time.Duration `koanf:"presign_ttl"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns the configuration used before any file or environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver:        "postgres",
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "recipes",
			SSLMode:       "disable",
			Path:          "recipes.db",
			MigrationsDir: "migrations",
			MaxOpenConns:  25,
			MaxIdleConns:  25,
			ConnLifetime:  5 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     "6379",
			CacheTTL: 2 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Listing: ListingConfig{
			DefaultPageSize: 6,
			FeaturedLimit:   6,
			SearchPageSize:  12,
		},
		RateLimit: RateLimitConfig{
			FeedbackLimit:  30,
			FeedbackWindow: time.Minute,
		},
		Storage: StorageConfig{
			PresignTTL: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig layers defaults, an optional YAML file, environment variables and
// finally Docker secrets, then validates the result for the current environment.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	applySecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variables onto koanf paths.
var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"allowed_origins":         "server.allowed_origins",

	"db_driver":         "database.driver",
	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_password":       "database.password",
	"db_name":           "database.name",
	"db_ssl_mode":       "database.ssl_mode",
	"db_path":           "database.path",
	"db_migrations_dir": "database.migrations_dir",
	"db_max_open_conns": "database.max_open_conns",

	"redis_enabled":   "redis.enabled",
	"redis_host":      "redis.host",
	"redis_port":      "redis.port",
	"redis_password":  "redis.password",
	"redis_db":        "redis.db",
	"redis_url":       "redis.url",
	"redis_cache_ttl": "redis.cache_ttl",

	"jwt_secret":    "auth.jwt_secret",
	"jwt_token_ttl": "auth.token_ttl",

	"listing_default_page_size": "listing.default_page_size",
	"listing_featured_limit":    "listing.featured_limit",
	"listing_search_page_size":  "listing.search_page_size",

	"feedback_rate_limit":  "rate_limit.feedback_limit",
	"feedback_rate_window": "rate_limit.feedback_window",

	"s3_bucket_name":        "storage.s3_bucket",
	"aws_region":            "storage.s3_region",
	"media_public_base_url": "storage.public_base_url",
	"media_presign_ttl":     "storage.presign_ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for variables that are not configuration, which
// makes koanf skip them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// applySecrets fills sensitive values from the secrets directory when the
// environment did not provide them.
func applySecrets(cfg *Config) {
	if cfg.Database.Password == "" {
		cfg.Database.Password = readSecret("db_password")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
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
