// Package checker invokes an external syntax checker on an emitted
// artifact. Design-content failures come back inside the
// ValidationResult; a non-nil error means the tool could not be invoked
// at all, which is an infrastructure problem rather than a design one.
package checker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Checker validates one artifact file with an external tool.
type Checker interface {
	Check(ctx context.Context, file string) (domain.ValidationResult, error)
}

// DefaultChecker implements Checker over a compiler-style subprocess.
type DefaultChecker struct {
	cfg config.CheckConfig
	log *logrus.Logger
}

// NewChecker creates a new DefaultChecker.
func NewChecker(cfg config.CheckConfig, log *logrus.Logger) *DefaultChecker {
	return &DefaultChecker{cfg: cfg, log: log}
}

// Check compiles file with the configured tool. Zero exit yields Passed;
// non-zero exit yields FailedCompilation with the tool's diagnostic
// stream captured verbatim. The check object file lands next to the
// artifact being checked.
func (c *DefaultChecker) Check(ctx context.Context, file string) (domain.ValidationResult, error) {
	tool, err := exec.LookPath(c.cfg.Tool)
	if err != nil {
		return domain.ValidationResult{Status: domain.StatusSkipped},
			domain.NewErrorWithSuggestion("check", file,
				"syntax check tool not found",
				"install "+c.cfg.Tool+" or disable the check in rtlsmith.yaml", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CheckTimeout())
	defer cancel()

	out := filepath.Join(filepath.Dir(file), c.cfg.OutputFile)
	cmd := exec.CommandContext(ctx, tool, "-o", out, file)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debugf("running %s -o %s %s", tool, out, file)
	err = cmd.Run()
	if err == nil {
		return domain.ValidationResult{Status: domain.StatusPassed}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		diagnostics := stderr.String()
		if diagnostics == "" {
			diagnostics = stdout.String()
		}
		return domain.ValidationResult{
			Status:      domain.StatusFailedCompile,
			Diagnostics: diagnostics,
		}, nil
	}

	return domain.ValidationResult{Status: domain.StatusSkipped},
		domain.NewError("check", file, "syntax check tool could not run", err)
}
