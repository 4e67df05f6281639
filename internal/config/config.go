package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is loaded from YAML with environment overrides for deploy secrets.
type Config struct {
	Addr string `yaml:"addr"`

	MySQLDSN string `yaml:"mysqlDSN"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`

	KafkaBrokers []string `yaml:"kafkaBrokers"`
	KafkaTopic   string   `yaml:"kafkaTopic"`

	AccessSecret  string `yaml:"accessSecret"`
	RefreshSecret string `yaml:"refreshSecret"`
	AccessTTL     string `yaml:"accessTTL"`
	RefreshTTL    string `yaml:"refreshTTL"`

	GoogleClientID string   `yaml:"googleClientID"`
	AllowedDomain  string   `yaml:"allowedDomain"` // e.g. nitc.ac.in; empty allows any
	AdminEmails    []string `yaml:"adminEmails"`

	SMTP SMTPConfig `yaml:"smtp"`

	Storage StorageConfig `yaml:"storage"`

	LogLevel string `yaml:"logLevel"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // local | minio
	Dir     string `yaml:"dir"`     // local backend

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
}

// Load reads the config file and applies env overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Addr:       ":5000",
		RedisDB:    0,
		KafkaTopic: "doubt-events",
		AccessTTL:  "30m",
		RefreshTTL: "24h",
		LogLevel:   "info",
		Storage: StorageConfig{
			Backend: "local",
			Dir:     "uploads",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.MySQLDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("ACCESS_SECRET"); v != "" {
		cfg.AccessSecret = v
	}
	if v := os.Getenv("REFRESH_SECRET"); v != "" {
		cfg.RefreshSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.GoogleClientID = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
}

// AccessTTLDuration parses the access token lifetime, defaulting to 30m.
func (c *Config) AccessTTLDuration() time.Duration {
	return parseTTL(c.AccessTTL, 30*time.Minute)
}

// RefreshTTLDuration parses the refresh token lifetime, defaulting to 24h.
func (c *Config) RefreshTTLDuration() time.Duration {
	return parseTTL(c.RefreshTTL, 24*time.Hour)
}

func parseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IsAdminEmail reports whether email is on the configured admin list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(email)
	for _, a := range c.AdminEmails {
		if strings.ToLower(a) == email {
			return true
		}
	}
	return false
}

// DomainAllowed checks the institutional email restriction.
func (c *Config) DomainAllowed(email string) bool {
	if c.AllowedDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(c.AllowedDomain))
}
