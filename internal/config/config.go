// Package config loads the optional .tmplsync.yaml file of a target
// directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// FileName is the configuration file looked up in the target directory.
const FileName = ".tmplsync.yaml"

// MaxContext bounds the number of context lines.
const MaxContext = 20

// Config is the file configuration. CLI flags override it.
type Config struct {
	// Mode is the interactive strategy: "block" or "line".
	Mode string `yaml:"mode"`
	// Context is the number of unchanged lines shown around each change.
	Context int `yaml:"context"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
	// Theme is the chroma style for context lines.
	Theme string `yaml:"theme"`
	// Exclude lists glob patterns of rendered paths never touched.
	Exclude []string `yaml:"exclude"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode:    model.ModeBlock.String(),
		Context: diff.DefaultContext,
		Color:   "auto",
		Theme:   diff.DefaultTheme,
	}
}

// Load reads the configuration at path over the defaults. A missing file
// is not an error. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads FileName from dir.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Options maps the configured mode to decider options.
func (c *Config) Options() model.Options {
	m, err := model.ParseMode(c.Mode)
	if err != nil {
		return model.Options{}
	}
	return model.OptionsFor(m)
}
