package cryptofolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the application.
type Config struct {
	Currency string        `yaml:"currency"`
	Sections []string      `yaml:"sections"`
	Storage  StorageConfig `yaml:"storage"`
	Prices   PricesConfig  `yaml:"prices"`
	Listen   string        `yaml:"listen"`
}

// StorageConfig selects and configures the KV backend of the holdings document.
type StorageConfig struct {
	Backend       string `yaml:"backend"` // file, memory or redis
	Path          string `yaml:"path"`
	Key           string `yaml:"key"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// PricesConfig configures the price fetcher.
type PricesConfig struct {
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() Config {
	return Config{
		Currency: "EUR",
		Sections: []string{"blox", "bitvavo"},
		Storage: StorageConfig{
			Backend:   "file",
			Path:      "cryptofolio.json",
			Key:       DefaultStorageKey,
			RedisAddr: "localhost:6379",
		},
		Prices: PricesConfig{
			BaseURL:  DefaultPriceURL,
			CacheTTL: time.Minute,
			Timeout:  10 * time.Second,
		},
		Listen: "127.0.0.1:8080",
	}
}

// LoadConfig reads the YAML file at path on top of the default configuration.
//
// If the file does not exist the returned error wraps fs.ErrNotExist and the
// returned config holds the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return DefaultConfig(), fmt.Errorf("could not parse config %q: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides the storage settings with the CRYPTOFOLIO_* variables
// found by getenv (usually os.Getenv).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("CRYPTOFOLIO_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := getenv("CRYPTOFOLIO_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := getenv("CRYPTOFOLIO_REDIS_PASSWORD"); v != "" {
		c.Storage.RedisPassword = v
	}
}

// Validate checks the configuration consistency.
func (c Config) Validate() error {
	var errs []error
	if err := ValidateCurrency(c.Currency); err != nil {
		errs = append(errs, err)
	}
	if len(c.Sections) == 0 {
		errs = append(errs, errors.New("at least one section is required"))
	}
	for i, s := range c.Sections {
		if s == "" {
			errs = append(errs, fmt.Errorf("section #%d has an empty name", i+1))
		}
		if slices.Index(c.Sections, s) != i {
			errs = append(errs, fmt.Errorf("section %q is declared twice", s))
		}
	}
	switch c.Storage.Backend {
	case "file":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("file storage requires a path"))
		}
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}

// OpenKV returns the KV backend described by the storage settings.
func (c StorageConfig) OpenKV() (KV, error) {
	switch c.Backend {
	case "file":
		return NewFileKV(c.Path), nil
	case "memory":
		return new(MemoryKV), nil
	case "redis":
		return NewRedisKV(c.RedisAddr, c.RedisPassword, c.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Backend)
	}
}
