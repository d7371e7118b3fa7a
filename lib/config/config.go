// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the console configuration.
type Config struct {
	// Service configures the connection to the monitoring service.
	Service ServiceConfig `yaml:"service"`

	// Session configures session persistence.
	Session SessionConfig `yaml:"session"`

	// Views configures per-view refresh cadences.
	Views ViewsConfig `yaml:"views"`
}

// ServiceConfig configures the connection to the monitoring service.
type ServiceConfig struct {
	// BaseURL is the service's API root.
	// Default: http://localhost:8000/api
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each HTTP request, as a Go duration
	// string. Default: 30s
	RequestTimeout string `yaml:"request_timeout"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// File overrides the session file location. Empty selects the
	// default path (PLANTWATCH_SESSION_FILE, then
	// ~/.config/plantwatch/session.json).
	File string `yaml:"file"`
}

// ViewsConfig holds each view's refresh interval as a Go duration
// string. A view's synchronizer re-fetches at this cadence.
type ViewsConfig struct {
	// Dashboard covers the stats summary and temperature chart.
	// Default: 30s
	Dashboard string `yaml:"dashboard"`

	// Equipment covers the fleet list. Default: 15s
	Equipment string `yaml:"equipment"`

	// Events covers the alert feed. Default: 20s
	Events string `yaml:"events"`

	// Sensors covers live sensor series on detail views.
	// Default: 10s
	Sensors string `yaml:"sensors"`
}

// Default returns the default configuration. These defaults make the
// console work against a local service with no config file at all.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:        "http://localhost:8000/api",
			RequestTimeout: "30s",
		},
		Views: ViewsConfig{
			Dashboard: "30s",
			Equipment: "15s",
			Events:    "20s",
			Sensors:   "10s",
		},
	}
}

// Load loads configuration from the PLANTWATCH_CONFIG environment
// variable, falling back to defaults when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("PLANTWATCH_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path-valued fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Session.File = expandVars(c.Session.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.BaseURL == "" {
		errs = append(errs, fmt.Errorf("service.base_url is required"))
	} else if parsed, err := url.Parse(c.Service.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("service.base_url %q is not an absolute URL", c.Service.BaseURL))
	}

	durations := map[string]string{
		"service.request_timeout": c.Service.RequestTimeout,
		"views.dashboard":         c.Views.Dashboard,
		"views.equipment":         c.Views.Equipment,
		"views.events":            c.Views.Events,
		"views.sensors":           c.Views.Sensors,
	}
	for field, value := range durations {
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", field, value))
			continue
		}
		if parsed <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %q", field, value))
		}
	}

	return errors.Join(errs...)
}

// RequestTimeout returns the parsed request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.Service.RequestTimeout, 30*time.Second)
}

// DashboardInterval returns the dashboard view's refresh cadence.
func (c *Config) DashboardInterval() time.Duration {
	return parseDuration(c.Views.Dashboard, 30*time.Second)
}

// EquipmentInterval returns the equipment view's refresh cadence.
func (c *Config) EquipmentInterval() time.Duration {
	return parseDuration(c.Views.Equipment, 15*time.Second)
}

// EventsInterval returns the event feed's refresh cadence.
func (c *Config) EventsInterval() time.Duration {
	return parseDuration(c.Views.Events, 20*time.Second)
}

// SensorsInterval returns the sensor series' refresh cadence.
func (c *Config) SensorsInterval() time.Duration {
	return parseDuration(c.Views.Sensors, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
