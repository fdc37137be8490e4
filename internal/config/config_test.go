package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/upn-qr/internal/render"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.LogFormat())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CacheTTL)
	assert.False(t, cfg.CacheEnabled())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, render.DefaultOptions(), cfg.RenderOptions())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("QR_RECOVERY_LEVEL", "l")
	t.Setenv("QR_MODULE_SIZE", "4")
	t.Setenv("QR_DISABLE_BORDER", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RENDER_CACHE_TTL", "5m")
	t.Setenv("SCHEMA_STRICT", "true")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.LogFormat())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Schema.Strict)

	opts := cfg.RenderOptions()
	assert.Equal(t, "L", opts.RecoveryLevel)
	assert.Equal(t, 4, opts.ModuleSize)
	assert.True(t, opts.DisableBorder)
}

func TestConfig_LogFormat(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		format   string
		expected string
	}{
		{name: "development defaults to text", env: "development", expected: "text"},
		{name: "production defaults to json", env: "production", expected: "json"},
		{name: "explicit format wins", env: "development", format: "JSON", expected: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server:  ServerConfig{Env: tt.env},
				Logging: LoggingConfig{Format: tt.format},
			}
			assert.Equal(t, tt.expected, cfg.LogFormat())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: "8080"},
			Logging: LoggingConfig{Level: "info", Format: "json"},
			QR:      QRConfig{Version: 15, RecoveryLevel: "M", ModuleSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad version", mutate: func(c *Config) { c.QR.Version = 0 }, wantErr: true},
		{name: "bad recovery level", mutate: func(c *Config) { c.QR.RecoveryLevel = "Z" }, wantErr: true},
		{name: "bad module size", mutate: func(c *Config) { c.QR.ModuleSize = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Redis.CacheTTL = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
