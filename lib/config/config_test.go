// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plantwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:8000/api" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if got := cfg.DashboardInterval(); got != 30*time.Second {
		t.Errorf("DashboardInterval = %v, want 30s", got)
	}
	if got := cfg.SensorsInterval(); got != 10*time.Second {
		t.Errorf("SensorsInterval = %v, want 10s", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
service:
  base_url: https://plant.example/api
  request_timeout: 5s
views:
  equipment: 3s
session:
  file: ${HOME}/.plantwatch/session.json
`)
	t.Setenv("HOME", "/home/operator")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Service.BaseURL != "https://plant.example/api" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if got := cfg.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", got)
	}
	if got := cfg.EquipmentInterval(); got != 3*time.Second {
		t.Errorf("EquipmentInterval = %v, want 3s", got)
	}
	// Unset fields keep their defaults.
	if got := cfg.EventsInterval(); got != 20*time.Second {
		t.Errorf("EventsInterval = %v, want default 20s", got)
	}
	if cfg.Session.File != "/home/operator/.plantwatch/session.json" {
		t.Errorf("Session.File = %q, want ${HOME} expanded", cfg.Session.File)
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("bad YAML", func(t *testing.T) {
		path := writeConfig(t, "service: [not a mapping")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfig(t, "views:\n  dashboard: quickly\n")
		_, err := LoadFile(path)
		if err == nil {
			t.Fatal("expected error for unparseable duration")
		}
		if !strings.Contains(err.Error(), "views.dashboard") {
			t.Errorf("error %q does not name the field", err)
		}
	})

	t.Run("negative interval", func(t *testing.T) {
		path := writeConfig(t, "views:\n  events: -5s\n")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for negative interval")
		}
	})

	t.Run("relative base URL", func(t *testing.T) {
		path := writeConfig(t, "service:\n  base_url: /api\n")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for relative base URL")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("env unset uses defaults", func(t *testing.T) {
		t.Setenv("PLANTWATCH_CONFIG", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Service.BaseURL != Default().Service.BaseURL {
			t.Errorf("BaseURL = %q, want default", cfg.Service.BaseURL)
		}
	})

	t.Run("env points at file", func(t *testing.T) {
		path := writeConfig(t, "service:\n  base_url: http://elsewhere:9000/api\n")
		t.Setenv("PLANTWATCH_CONFIG", path)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Service.BaseURL != "http://elsewhere:9000/api" {
			t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
		}
	})
}
