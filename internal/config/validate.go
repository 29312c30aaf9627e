package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Backend validation
	if cfg.Backend.BaseURL == "" {
		errs = append(errs, "backend.base_url must not be empty")
	}
	if cfg.Backend.Model == "" {
		errs = append(errs, "backend.model must not be empty")
	}
	if cfg.Backend.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Backend.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("backend.timeout is not a valid duration: %v", err))
		}
	}

	// Workflow validation
	if cfg.Workflow.RootDir == "" {
		errs = append(errs, "workflow.root_dir must not be empty")
	}

	// Extract validation
	if cfg.Extract.DefaultKey == "" {
		errs = append(errs, "extract.default_key must not be empty")
	}

	// Check validation
	if cfg.Check.IsEnabled() {
		if cfg.Check.Tool == "" {
			errs = append(errs, "check.tool must not be empty when check is enabled")
		}
		if cfg.Check.OutputFile == "" {
			errs = append(errs, "check.output_file must not be empty when check is enabled")
		}
	}
	if cfg.Check.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Check.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("check.timeout is not a valid duration: %v", err))
		}
	}

	// Registry validation
	if cfg.Registry.IsEnabled() && cfg.Registry.Path == "" {
		errs = append(errs, "registry.path must not be empty when registry is enabled")
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
