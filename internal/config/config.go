package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Extract  ExtractConfig  `yaml:"extract"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Check    CheckConfig    `yaml:"check"`
	Registry RegistryConfig `yaml:"registry"`
	Logging  LoggingConfig  `yaml:"logging"`
	DryRun   bool           `yaml:"dry_run"`
}

type BackendConfig struct {
	BaseURL            string `yaml:"base_url"`
	Model              string `yaml:"model"`
	APIKeyEnv          string `yaml:"api_key_env"`
	Timeout            string `yaml:"timeout"`
	PromptTemplateFile string `yaml:"prompt_template_file"`
}

type WorkflowConfig struct {
	RootDir string `yaml:"root_dir"`
}

type ExtractConfig struct {
	DefaultKey     string `yaml:"default_key"`
	FencedFallback bool   `yaml:"fenced_fallback"`
	FileBlocks     bool   `yaml:"file_blocks"`
}

type ResolveConfig struct {
	StripFences  bool `yaml:"strip_fences"`
	CleanupPorts bool `yaml:"cleanup_ports"`
}

type CheckConfig struct {
	Enabled    *bool  `yaml:"enabled"` // pointer to distinguish unset from false
	Tool       string `yaml:"tool"`
	OutputFile string `yaml:"output_file"`
	Timeout    string `yaml:"timeout"`
}

type RegistryConfig struct {
	Enabled *bool  `yaml:"enabled"` // pointer to distinguish unset from false
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, "failed to parse config file", err)
	}

	return cfg, nil
}

// RequestTimeout returns the parsed backend timeout, falling back to the
// default when the field is empty or malformed. Validate reports malformed
// values; this accessor never fails.
func (b BackendConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(b.Timeout)
	if err != nil || d <= 0 {
		return defaultBackendTimeout
	}
	return d
}

// APIKey resolves the backend API key from the configured environment
// variable. An empty result means unauthenticated access.
func (b BackendConfig) APIKey() string {
	if b.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(b.APIKeyEnv)
}

// IsEnabled reports whether the syntax check should run. Unset means enabled.
func (c CheckConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// CheckTimeout returns the parsed check timeout, falling back to the default.
func (c CheckConfig) CheckTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultCheckTimeout
	}
	return d
}

// IsEnabled reports whether registry recording should run. Unset means enabled.
func (r RegistryConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}
