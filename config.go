package charcountd

import (
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the bootstrap layer needs to bind and run the
// listener. The core handlers never read it directly.
type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Log         LogConfig         `yaml:"log"`
	RateLimit   RateLimitConfig   `yaml:"rateLimit"`
}

type ApplicationConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	BaseURL      string `yaml:"baseUrl"`
	MaxBodyBytes int    `yaml:"maxBodyBytes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// RateLimitConfig gates the optional per-client limiter. Zero Rps leaves
// it disabled.
type RateLimitConfig struct {
	Rps   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func DefaultConfig() Config {
	return Config{
		Application: ApplicationConfig{
			Host:         "127.0.0.1",
			Port:         8000,
			BaseURL:      "http://127.0.0.1:8000",
			MaxBodyBytes: 4096,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Application.Host, strconv.Itoa(c.Application.Port))
}

// LoadFromPath loads the configuration, merging the first readable
// candidate file over the defaults and applying environment overrides
// last. A missing or unreadable file is not an error.
func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/config.yaml",
			"config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}

		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

// Merge copies the non-zero fields of src over dst.
func Merge(dst *Config, src Config) {
	if src.Application.Host != "" {
		dst.Application.Host = src.Application.Host
	}
	if src.Application.Port != 0 {
		dst.Application.Port = src.Application.Port
	}
	if src.Application.BaseURL != "" {
		dst.Application.BaseURL = src.Application.BaseURL
	}
	if src.Application.MaxBodyBytes != 0 {
		dst.Application.MaxBodyBytes = src.Application.MaxBodyBytes
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.RateLimit.Rps != 0 {
		dst.RateLimit.Rps = src.RateLimit.Rps
	}
	if src.RateLimit.Burst != 0 {
		dst.RateLimit.Burst = src.RateLimit.Burst
	}
}

// ApplyEnvOverrides lets the environment win over file values.
func ApplyEnvOverrides(cfg *Config) {
	if host := strings.TrimSpace(os.Getenv("CHARCOUNTD_HOST")); host != "" {
		cfg.Application.Host = host
	}
	if raw := strings.TrimSpace(os.Getenv("CHARCOUNTD_PORT")); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port >= 0 {
			cfg.Application.Port = port
		}
	}
	if baseURL := strings.TrimSpace(os.Getenv("CHARCOUNTD_BASE_URL")); baseURL != "" {
		cfg.Application.BaseURL = baseURL
	}
	if level := strings.TrimSpace(os.Getenv("CHARCOUNTD_LOG_LEVEL")); level != "" {
		cfg.Log.Level = level
	}
}
