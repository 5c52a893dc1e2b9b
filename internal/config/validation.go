package config

import (
	"fmt"
	"path"

	"github.com/alecthomas/chroma/v2/styles"
)

var (
	validModes  = []string{"block", "line"}
	validColors = []string{"auto", "always", "never"}
)

// Validate checks cfg and returns *ValidationErrors listing every problem.
func Validate(cfg *Config) error {
	var errs []ValidationError

	if !oneOf(cfg.Mode, validModes) {
		errs = append(errs, ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("must be one of: %v", validModes),
			Value:   cfg.Mode,
			Wrapped: ErrInvalidConfig,
		})
	}

	if cfg.Context < 0 || cfg.Context > MaxContext {
		errs = append(errs, ValidationError{
			Field:   "context",
			Message: fmt.Sprintf("must be between 0 and %d", MaxContext),
			Value:   cfg.Context,
			Wrapped: ErrInvalidConfig,
		})
	}

	if !oneOf(cfg.Color, validColors) {
		errs = append(errs, ValidationError{
			Field:   "color",
			Message: fmt.Sprintf("must be one of: %v", validColors),
			Value:   cfg.Color,
			Wrapped: ErrInvalidConfig,
		})
	}

	if cfg.Theme != "" && styles.Get(cfg.Theme) == styles.Fallback && cfg.Theme != styles.Fallback.Name {
		errs = append(errs, ValidationError{
			Field:   "theme",
			Message: "unknown chroma style",
			Value:   cfg.Theme,
			Wrapped: ErrInvalidConfig,
		})
	}

	for i, pattern := range cfg.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exclude[%d]", i),
				Message: "malformed glob pattern",
				Value:   pattern,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
