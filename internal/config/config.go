package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Token   TokenConfig   `yaml:"token"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`
	Export  ExportConfig  `yaml:"export"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	AuthRPS   float64       `yaml:"auth_rps"`
	AuthBurst int           `yaml:"auth_burst"`
}

type TokenConfig struct {
	Store string `yaml:"store"` // file | redis
	Path  string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   15 * time.Second,
			AuthRPS:   1,
			AuthBurst: 5,
		},
		Token: TokenConfig{
			Store: "file",
			Path:  defaultTokenPath(),
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			Key:     "booking:token",
		},
		Export: ExportConfig{Path: "."},
	}
}

// Load reads .env, then the YAML file at path (if any), then env overrides.
// A missing file at the default path is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.API.BaseURL = env("API_BASE", cfg.API.BaseURL)
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	cfg.Token.Store = env("TOKEN_STORE", cfg.Token.Store)
	cfg.Token.Path = env("TOKEN_PATH", cfg.Token.Path)
	cfg.Redis.Address = env("REDIS_ADDR", cfg.Redis.Address)
	cfg.Redis.Password = env("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	cfg.Metrics.Addr = env("METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Export.Path = env("EXPORT_PATH", cfg.Export.Path)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	switch c.Token.Store {
	case "file":
		if c.Token.Path == "" {
			return errors.New("token path is required for the file store")
		}
	case "redis":
		if c.Redis.Address == "" {
			return errors.New("redis address is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown token store %q", c.Token.Store)
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".booking-token"
	}
	return filepath.Join(dir, "booking", "token")
}
