package config

import "time"

const (
	defaultBackendTimeout = 120 * time.Second
	defaultCheckTimeout   = 30 * time.Second
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	checkEnabled := true
	registryEnabled := true
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000/v1",
			Model:     "default",
			APIKeyEnv: "RTLSMITH_API_KEY",
			Timeout:   "120s",
		},
		Workflow: WorkflowConfig{
			RootDir: "workflows",
		},
		Extract: ExtractConfig{
			DefaultKey:     "default.v",
			FencedFallback: false,
			FileBlocks:     false,
		},
		Resolve: ResolveConfig{
			StripFences:  false,
			CleanupPorts: false,
		},
		Check: CheckConfig{
			Enabled:    &checkEnabled,
			Tool:       "iverilog",
			OutputFile: "design.out",
			Timeout:    "30s",
		},
		Registry: RegistryConfig{
			Enabled: &registryEnabled,
			Path:    "registry.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
