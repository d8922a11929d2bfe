package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "DEALFINDER_"

type Root struct {
	Env   string `yaml:"env"`
	Local Config `yaml:"local"`
	Dev   Config `yaml:"dev"`
	Prod  Config `yaml:"prod"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	Prefix     string `yaml:"prefix"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type Config struct {
	Env string `yaml:"-"`

	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"log"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		Retries        int `yaml:"retries"`
		Concurrency    int `yaml:"concurrency"`
	} `yaml:"http"`

	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`

	Storage struct {
		KV struct {
			Driver string      `yaml:"driver"` // memory|file|redis
			Path   string      `yaml:"path"`
			Redis  RedisConfig `yaml:"redis"`
		} `yaml:"kv"`
		Orders struct {
			Driver string `yaml:"driver"` // memory|sqlite|postgres
			DSN    string `yaml:"dsn"`
		} `yaml:"orders"`
	} `yaml:"storage"`

	Geo struct {
		RefLat float64 `yaml:"ref_lat"`
		RefLng float64 `yaml:"ref_lng"`
	} `yaml:"geo"`

	User struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"user"`

	Faults struct {
		Mode              string  `yaml:"mode"` // normal|rate_limit|server_error
		RateLimitAfter    int     `yaml:"rate_limit_after"`
		ServerErrorRate   float64 `yaml:"server_error_rate"`
		RetryAfterSeconds int     `yaml:"retry_after_seconds"`
	} `yaml:"faults"`
}

// Load reads .env (if any), the YAML profile file at path (if it exists),
// selects the profile named by env and applies environment overrides and
// defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var root Root
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &root); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if v := os.Getenv(envPrefix + "ENV"); v != "" {
		root.Env = v
	}
	return root.Select()
}

// Select picks the profile named by Env and finishes it.
func (root Root) Select() (*Config, error) {
	env := strings.TrimSpace(strings.ToLower(root.Env))
	if env == "" {
		env = "local"
	}

	var p Config
	switch env {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", env)
	}
	p.Env = env

	if err := applyEnv(&p); err != nil {
		return nil, err
	}
	applyDefaults(&p)

	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func applyEnv(p *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
			*dst = v
		}
	}

	str("HOST", &p.Server.Host)
	str("API_BASE_URL", &p.API.BaseURL)
	str("REDIS_ADDR", &p.Storage.KV.Redis.Addr)
	str("REDIS_PASSWORD", &p.Storage.KV.Redis.Password)
	str("DATABASE_DSN", &p.Storage.Orders.DSN)

	if v := strings.TrimSpace(os.Getenv(envPrefix + "PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT must be integer: %w", envPrefix, err)
		}
		p.Server.Port = port
	}
	return nil
}

func applyDefaults(p *Config) {
	if p.Server.Host == "" {
		p.Server.Host = "0.0.0.0"
	}
	if p.Server.Port == 0 {
		p.Server.Port = 7891
	}

	if p.HTTP.TimeoutSeconds <= 0 {
		p.HTTP.TimeoutSeconds = 30
	}
	if p.HTTP.Retries < 0 {
		p.HTTP.Retries = 0
	}
	if p.HTTP.Concurrency <= 0 {
		p.HTTP.Concurrency = 1
	}

	if p.API.BaseURL == "" {
		p.API.BaseURL = "http://127.0.0.1:7891"
	}
	p.API.BaseURL = strings.TrimRight(p.API.BaseURL, "/")

	p.Storage.KV.Driver = strings.ToLower(strings.TrimSpace(p.Storage.KV.Driver))
	if p.Storage.KV.Driver == "" {
		p.Storage.KV.Driver = "file"
	}
	if p.Storage.KV.Path == "" {
		p.Storage.KV.Path = "./data/session.json"
	}
	if p.Storage.KV.Redis.Addr == "" {
		p.Storage.KV.Redis.Addr = "127.0.0.1:6379"
	}
	if p.Storage.KV.Redis.Prefix == "" {
		p.Storage.KV.Redis.Prefix = "dealfinder"
	}

	p.Storage.Orders.Driver = strings.ToLower(strings.TrimSpace(p.Storage.Orders.Driver))
	if p.Storage.Orders.Driver == "" {
		p.Storage.Orders.Driver = "memory"
	}
	if p.Storage.Orders.Driver == "sqlite" && p.Storage.Orders.DSN == "" {
		p.Storage.Orders.DSN = "./data/orders.db"
	}

	if p.Geo.RefLat == 0 && p.Geo.RefLng == 0 {
		p.Geo.RefLat = 22.28552
		p.Geo.RefLng = 114.15769
	}

	if p.User.ID == "" {
		p.User.ID = "user-1"
	}
	if p.User.Name == "" {
		p.User.Name = "Franklin"
	}
	if p.User.Email == "" {
		p.User.Email = "franklin@example.com"
	}

	p.Faults.Mode = strings.ToLower(strings.TrimSpace(p.Faults.Mode))
	if p.Faults.Mode == "" {
		p.Faults.Mode = "normal"
	}
	if p.Faults.RetryAfterSeconds <= 0 {
		p.Faults.RetryAfterSeconds = 5
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}
}

func (p *Config) validate() error {
	switch p.Storage.KV.Driver {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("storage.kv.driver=%q (expected memory|file|redis)", p.Storage.KV.Driver)
	}
	switch p.Storage.Orders.Driver {
	case "memory", "sqlite":
	case "postgres":
		if p.Storage.Orders.DSN == "" {
			return fmt.Errorf("storage.orders.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("storage.orders.driver=%q (expected memory|sqlite|postgres)", p.Storage.Orders.Driver)
	}
	switch p.Faults.Mode {
	case "normal", "rate_limit", "server_error":
	default:
		return fmt.Errorf("faults.mode=%q (expected normal|rate_limit|server_error)", p.Faults.Mode)
	}
	if p.Faults.ServerErrorRate < 0 || p.Faults.ServerErrorRate > 1 {
		return fmt.Errorf("faults.server_error_rate must be in [0, 1]")
	}
	return nil
}
