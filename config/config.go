package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Application configuration, loaded from a YAML file. Everything has
// a workable default; a config file mostly exists to pin the station
// list and the hub.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Scrape ScrapeConfig `yaml:"scrape"`
	Route  RouteConfig  `yaml:"route"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
	Retries        int    `yaml:"retries" validate:"gte=0"`
	Concurrency    int    `yaml:"concurrency" validate:"gte=0,lte=64"`
}

type ScrapeConfig struct {
	Stations []string `yaml:"stations"`
	TimeFrom string   `yaml:"time_from"`
	TimeTo   string   `yaml:"time_to"`
}

type RouteConfig struct {
	Hub string `yaml:"hub"`
}

func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads and validates the first config file that exists among
// the given paths. No paths existing is not an error; defaults
// apply.
func Load(paths ...string) (*Config, error) {
	cfg := &Config{}

	var data []byte
	for _, p := range paths {
		buf, err := os.ReadFile(p)
		if err == nil {
			data = buf
			break
		}
	}
	if data == nil {
		applyDefaults(cfg)
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.API.Retries == 0 {
		cfg.API.Retries = 3
	}
	if cfg.API.Concurrency == 0 {
		cfg.API.Concurrency = 4
	}
	if cfg.Scrape.TimeFrom == "" {
		cfg.Scrape.TimeFrom = "00:00"
	}
	if cfg.Scrape.TimeTo == "" {
		cfg.Scrape.TimeTo = "23:59"
	}
	if cfg.Route.Hub == "" {
		cfg.Route.Hub = "Tanah Abang"
	}
}
