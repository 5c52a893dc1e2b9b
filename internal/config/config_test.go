package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sprite-ai/tmplsync/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.Mode != "block" || cfg.Context != 3 || cfg.Color != "auto" || cfg.Theme != "dracula" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Exclude) != 0 {
		t.Errorf("expected no excludes, got %v", cfg.Exclude)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg.Context != 3 {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
mode: line
context: 0
exclude:
  - "*.lock"
  - docs/generated/*
`)
	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.Mode != "line" {
		t.Errorf("mode = %q", cfg.Mode)
	}
	if cfg.Context != 0 {
		t.Errorf("explicit zero context lost: %d", cfg.Context)
	}
	if cfg.Color != "auto" {
		t.Errorf("unset color should keep default, got %q", cfg.Color)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[1] != "docs/generated/*" {
		t.Errorf("exclude = %v", cfg.Exclude)
	}
	if cfg.Options().Mode() != model.ModeLine {
		t.Errorf("options mode = %s", cfg.Options().Mode())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "mode: [unclosed\n")
	_, err := LoadDir(dir)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("expected ErrInvalidYAML, got %v", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	dir := writeConfig(t, "mode: fancy\ncontext: 99\ncolor: sometimes\n")
	_, err := LoadDir(dir)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(verrs.Errors) != 3 {
		t.Errorf("expected 3 validation errors, got %d: %v", len(verrs.Errors), err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		field   string
	}{
		{"defaults", func(*Config) {}, false, ""},
		{"line mode", func(c *Config) { c.Mode = "line" }, false, ""},
		{"dry-run is a flag, not a mode", func(c *Config) { c.Mode = "dry-run" }, true, "mode"},
		{"negative context", func(c *Config) { c.Context = -1 }, true, "context"},
		{"max context", func(c *Config) { c.Context = MaxContext }, false, ""},
		{"color never", func(c *Config) { c.Color = "never" }, false, ""},
		{"bad color", func(c *Config) { c.Color = "yes" }, true, "color"},
		{"known theme", func(c *Config) { c.Theme = "monokai" }, false, ""},
		{"unknown theme", func(c *Config) { c.Theme = "no-such-style" }, true, "theme"},
		{"bad glob", func(c *Config) { c.Exclude = []string{"[a-"} }, true, "exclude[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var verrs *ValidationErrors
			if !errors.As(err, &verrs) || verrs.Errors[0].Field != tt.field {
				t.Errorf("expected error on %q, got %v", tt.field, err)
			}
		})
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	ve := &ValidationError{Field: "mode", Message: "bad", Value: "x", Wrapped: ErrInvalidConfig}
	if !errors.Is(ve, ErrInvalidConfig) {
		t.Error("expected ValidationError to unwrap to ErrInvalidConfig")
	}
	if ve.Error() != `validation error: field "mode": bad (got: x)` {
		t.Errorf("unexpected message %q", ve.Error())
	}
}
