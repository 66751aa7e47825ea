package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	JWT           JWTConfig           `yaml:"jwt"`
	CORS          CORSConfig          `yaml:"cors"`
	Moderation    ModerationConfig    `yaml:"moderation"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Languages     []LanguageSeed      `yaml:"languages"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	Mode     string `yaml:"mode"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// GetDSN returns the MySQL data source name
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig cache settings. Empty host disables the cache.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ElasticsearchConfig search index feed settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// JWTConfig token verification settings
type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	Issuer    string        `yaml:"issuer"`
	ExpiresIn time.Duration `yaml:"expires_in"`
}

// CORSConfig allowed origins, comma separated
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// ModerationConfig edit policy settings
type ModerationConfig struct {
	// AutoVerifyRole makes edits by users with at least this role verified on creation.
	// Empty disables auto verification.
	AutoVerifyRole string `yaml:"auto_verify_role"`
}

// RateLimitConfig limits writes per user. Needs redis, zero disables.
type RateLimitConfig struct {
	EditsPerMinute int `yaml:"edits_per_minute"`
}

// LanguageSeed is a language created by the migration command when missing
type LanguageSeed struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	IsRTL bool   `yaml:"is_rtl"`
}

// Default returns a configuration that works for local development
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "debug", Env: "development", LogLevel: "info"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 3306, User: "footprints", DBName: "footprints",
			MaxIdleConns: 10, MaxOpenConns: 50, ConnMaxLifetime: 300,
		},
		Redis:         RedisConfig{Port: 6379, PoolSize: 10},
		Elasticsearch: ElasticsearchConfig{Index: "footprints-content"},
		JWT:           JWTConfig{Issuer: "footprints", ExpiresIn: 24 * time.Hour},
		CORS:          CORSConfig{AllowOrigins: "http://localhost:3000"},
		RateLimit:     RateLimitConfig{EditsPerMinute: 30},
		Languages: []LanguageSeed{
			{Code: "en", Name: "English"},
			{Code: "de", Name: "Deutsch"},
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Moderation.AutoVerifyRole != "" && !domain.Role(c.Moderation.AutoVerifyRole).AtLeast(domain.RoleUser) {
		return fmt.Errorf("moderation.auto_verify_role: unknown role %q", c.Moderation.AutoVerifyRole)
	}
	if c.RateLimit.EditsPerMinute < 0 {
		return fmt.Errorf("rate_limit.edits_per_minute must not be negative")
	}
	if !c.IsDevelopment() && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required outside development")
	}
	return nil
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

func applyEnv(c *Config) {
	setString(&c.Server.Env, "APP_ENV")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.LogLevel, "LOG_LEVEL")

	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")

	setString(&c.Redis.Host, "REDIS_HOST")
	setInt(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	if v := os.Getenv("ES_ADDRESSES"); v != "" {
		c.Elasticsearch.Addresses = splitAndTrim(v, ",")
		c.Elasticsearch.Enabled = true
	}
	setString(&c.Elasticsearch.Username, "ES_USERNAME")
	setString(&c.Elasticsearch.Password, "ES_PASSWORD")
	setString(&c.Elasticsearch.Index, "ES_INDEX")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
	setString(&c.Moderation.AutoVerifyRole, "MODERATION_AUTO_VERIFY_ROLE")
	setInt(&c.RateLimit.EditsPerMinute, "RATE_LIMIT_EDITS_PER_MINUTE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// SplitOrigins returns the configured CORS origins
func (c CORSConfig) SplitOrigins() []string {
	return splitAndTrim(c.AllowOrigins, ",")
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogResolved logs the effective configuration without secrets
func LogResolved(c *Config) {
	pkglogger.GetLogger().Info().
		Str("env", c.Server.Env).
		Int("port", c.Server.Port).
		Str("db_host", c.Database.Host).
		Str("db_name", c.Database.DBName).
		Str("redis_host", c.Redis.Host).
		Bool("elasticsearch", c.Elasticsearch.Enabled).
		Str("auto_verify_role", c.Moderation.AutoVerifyRole).
		Msg("configuration resolved")
}
