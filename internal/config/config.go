package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/segyhp/upn-qr/internal/render"
)

// Config holds all configuration for our application
type Config struct {
	Server  ServerConfig  `mapstructure:",squash"`
	Logging LoggingConfig `mapstructure:",squash"`
	Schema  SchemaConfig  `mapstructure:",squash"`
	QR      QRConfig      `mapstructure:",squash"`
	Redis   RedisConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type SchemaConfig struct {
	// Path of a schema document; empty selects the built-in schema
	Path   string `mapstructure:"SCHEMA_PATH"`
	Strict bool   `mapstructure:"SCHEMA_STRICT"`
}

type QRConfig struct {
	Version       int    `mapstructure:"QR_VERSION"`
	RecoveryLevel string `mapstructure:"QR_RECOVERY_LEVEL"`
	ModuleSize    int    `mapstructure:"QR_MODULE_SIZE"`
	DisableBorder bool   `mapstructure:"QR_DISABLE_BORDER"`
}

type RedisConfig struct {
	// Addr enables the render cache when set
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	CacheTTL time.Duration `mapstructure:"RENDER_CACHE_TTL"`
}

var keys = []string{
	"SERVER_PORT", "SERVER_HOST", "ENV", "READ_TIMEOUT", "WRITE_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT",
	"SCHEMA_PATH", "SCHEMA_STRICT",
	"QR_VERSION", "QR_RECOVERY_LEVEL", "QR_MODULE_SIZE", "QR_DISABLE_BORDER",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "RENDER_CACHE_TTL",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	_ = godotenv.Load()

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("READ_TIMEOUT", "10s")
	v.SetDefault("WRITE_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("SCHEMA_PATH", "")
	v.SetDefault("SCHEMA_STRICT", false)
	v.SetDefault("QR_VERSION", render.DefaultVersion)
	v.SetDefault("QR_RECOVERY_LEVEL", render.DefaultRecoveryLevel)
	v.SetDefault("QR_MODULE_SIZE", render.DefaultModuleSize)
	v.SetDefault("QR_DISABLE_BORDER", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RENDER_CACHE_TTL", "24h")

	// Read from environment variables
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}

	if c.QR.Version < 1 || c.QR.Version > 40 {
		return fmt.Errorf("QR_VERSION must be between 1 and 40")
	}

	if _, err := render.ParseRecoveryLevel(c.QR.RecoveryLevel); err != nil {
		return fmt.Errorf("QR_RECOVERY_LEVEL: %w", err)
	}

	if c.QR.ModuleSize <= 0 {
		return fmt.Errorf("QR_MODULE_SIZE must be greater than 0")
	}

	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("RENDER_CACHE_TTL must not be negative")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// LogFormat returns LOG_FORMAT, defaulting to text in development and json elsewhere
func (c *Config) LogFormat() string {
	if c.Logging.Format != "" {
		return strings.ToLower(c.Logging.Format)
	}
	if c.IsDevelopment() {
		return "text"
	}
	return "json"
}

// CacheEnabled reports whether rendered images are cached in Redis
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// RenderOptions returns the QR rasterizer options
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Version:       c.QR.Version,
		RecoveryLevel: strings.ToUpper(c.QR.RecoveryLevel),
		ModuleSize:    c.QR.ModuleSize,
		DisableBorder: c.QR.DisableBorder,
	}
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
