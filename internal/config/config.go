// Package config loads client settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBase         string
	Query           string
	HTTPTimeout     time.Duration
	NotifyDelay     time.Duration
	AlertFade       time.Duration
	RefreshInterval time.Duration
	RateLimit       float64
	MetricsAddr     string
	LogLevel        string
}

// Load reads the TODO_* variables. Unset variables take their defaults;
// malformed ones are an error.
func Load() (Config, error) {
	timeout, err := getEnvAsInt("TODO_HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}
	notifyDelay, err := getEnvAsInt("TODO_NOTIFY_DELAY_MS", 1500)
	if err != nil {
		return Config{}, err
	}
	fade, err := getEnvAsInt("TODO_ALERT_FADE_SECONDS", 5)
	if err != nil {
		return Config{}, err
	}
	refresh, err := getEnvAsInt("TODO_REFRESH_INTERVAL_SECONDS", 0)
	if err != nil {
		return Config{}, err
	}
	rateLimit, err := getEnvAsFloat("TODO_RATE_LIMIT_PER_SECOND", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBase:         getEnv("TODO_API_BASE", "http://127.0.0.1:8080/"),
		Query:           os.Getenv("TODO_QUERY"),
		HTTPTimeout:     time.Duration(timeout) * time.Second,
		NotifyDelay:     time.Duration(notifyDelay) * time.Millisecond,
		AlertFade:       time.Duration(fade) * time.Second,
		RefreshInterval: time.Duration(refresh) * time.Second,
		RateLimit:       rateLimit,
		MetricsAddr:     os.Getenv("TODO_METRICS_ADDR"),
		LogLevel:        getEnv("TODO_LOG_LEVEL", "info"),
	}
	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	u, err := url.Parse(cfg.APIBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("TODO_API_BASE must be an absolute URL, got %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("TODO_HTTP_TIMEOUT_SECONDS must not be negative")
	}
	if cfg.NotifyDelay < 0 {
		return fmt.Errorf("TODO_NOTIFY_DELAY_MS must not be negative")
	}
	if cfg.AlertFade <= 0 {
		return fmt.Errorf("TODO_ALERT_FADE_SECONDS must be greater than 0")
	}
	if cfg.RefreshInterval < 0 {
		return fmt.Errorf("TODO_REFRESH_INTERVAL_SECONDS must not be negative")
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("TODO_RATE_LIMIT_PER_SECOND must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getEnvAsFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
