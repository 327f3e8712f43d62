package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, matching config/config.yaml.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	Stores   []StoreConfig  `mapstructure:"stores"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"` // listen port
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ScrapeConfig controls the Microcenter scraper.
type ScrapeConfig struct {
	BaseURL        string        `mapstructure:"base_url"`         // site root, e.g. https://www.microcenter.com
	ResultsPerPage int           `mapstructure:"results_per_page"` // rpp query param; a short page ends pagination
	PageDelay      time.Duration `mapstructure:"page_delay"`       // pause between result pages
	RequestTimeout time.Duration `mapstructure:"request_timeout"`  // per-request HTTP timeout
	Timeout        time.Duration `mapstructure:"timeout"`          // whole-job bound; a stuck scrape must not hold the slot forever
	UserAgent      string        `mapstructure:"user_agent"`
	Proxy          string        `mapstructure:"proxy"`
}

// StoreConfig is one seeded Microcenter location. MicrocenterID is the
// storeid query param used by the search pages.
type StoreConfig struct {
	Name          string `mapstructure:"name"`
	City          string `mapstructure:"city"`
	State         string `mapstructure:"state"`
	MicrocenterID string `mapstructure:"microcenter_id"`
}

// LoadConfig reads config/config.yaml; sensitive values may be overridden
// from .env (never committed).
func LoadConfig() (*Config, error) {
	// .env is optional, env values win over yaml
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SCRAPE_PROXY"); v != "" {
		cfg.Scrape.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Scrape.BaseURL == "" {
		cfg.Scrape.BaseURL = "https://www.microcenter.com"
	}
	if cfg.Scrape.ResultsPerPage <= 0 {
		cfg.Scrape.ResultsPerPage = 96
	}
	if cfg.Scrape.PageDelay <= 0 {
		cfg.Scrape.PageDelay = 5 * time.Second
	}
	if cfg.Scrape.RequestTimeout <= 0 {
		cfg.Scrape.RequestTimeout = 30 * time.Second
	}
	if cfg.Scrape.Timeout <= 0 {
		cfg.Scrape.Timeout = 10 * time.Minute
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"
	}
}
