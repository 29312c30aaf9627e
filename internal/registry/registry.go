// Package registry records which artifacts each workflow produced.
package registry

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
)

// Registry keys used by the pipeline reporter.
const (
	KeyRTLOutput  = "rtl_output"
	KeyCompileLog = "compile_log"
	KeyDesignSpec = "design_spec"
)

// Registry tracks artifact paths per workflow. Appends deduplicate by
// path within a key.
type Registry interface {
	Append(ctx context.Context, workflowID, key, path string) error
	Reset(ctx context.Context, workflowID string) error
	Records(ctx context.Context, workflowID string) (map[string][]string, error)
	Close() error
}

// New returns the configured Registry implementation. A disabled
// registry accepts every call and records nothing.
func New(cfg config.RegistryConfig, log *logrus.Logger) (Registry, error) {
	if !cfg.IsEnabled() {
		return &Disabled{}, nil
	}
	return NewSQLiteRegistry(cfg.Path, log)
}

// Disabled is the no-op Registry.
type Disabled struct{}

func (d *Disabled) Append(ctx context.Context, workflowID, key, path string) error {
	return nil
}

func (d *Disabled) Reset(ctx context.Context, workflowID string) error {
	return nil
}

func (d *Disabled) Records(ctx context.Context, workflowID string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func (d *Disabled) Close() error {
	return nil
}
