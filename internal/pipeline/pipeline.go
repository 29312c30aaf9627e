// Package pipeline drives one workflow run: generation, extraction,
// normalization, resolution, emission, validation, and reporting.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/checker"
	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/emitter"
	"github.com/rtlsmith/rtlsmith/internal/extractor"
	"github.com/rtlsmith/rtlsmith/internal/llm"
	"github.com/rtlsmith/rtlsmith/internal/normalizer"
	"github.com/rtlsmith/rtlsmith/internal/registry"
	"github.com/rtlsmith/rtlsmith/internal/resolver"
	"github.com/rtlsmith/rtlsmith/internal/workflow"
)

// Human-readable run statuses.
const (
	StatusNoSpec                = "no specification provided"
	StatusGenerationFailed      = "generation failed"
	StatusCheckPassed           = "syntax check passed"
	StatusCheckSkipped          = "syntax check skipped"
	StatusCheckSkippedHierarchy = "syntax check skipped (hierarchical design)"
	StatusCompileFailed         = "generated but failed compilation"
)

// Runner wires the pipeline stages together. Collaborators with external
// effects (backend, syntax checker, registry) are injected; the pure
// stages are built from configuration.
type Runner struct {
	cfg        *config.Config
	client     llm.Client
	prompt     llm.Builder
	extractor  extractor.Extractor
	normalizer normalizer.Normalizer
	resolver   resolver.Resolver
	emitter    emitter.Emitter
	checker    checker.Checker
	registry   registry.Registry
	log        *logrus.Logger
}

// NewRunner creates a Runner for the given configuration and collaborators.
func NewRunner(cfg *config.Config, client llm.Client, prompt llm.Builder,
	check checker.Checker, reg registry.Registry, log *logrus.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		client:     client,
		prompt:     prompt,
		extractor:  extractor.NewExtractor(cfg.Extract, log),
		normalizer: normalizer.NewNormalizer(log),
		resolver:   resolver.NewResolver(cfg.Resolve, cfg.Extract.DefaultKey, log),
		emitter:    emitter.NewEmitter(cfg.DryRun, log),
		checker:    check,
		registry:   reg,
		log:        log,
	}
}

// Run executes one workflow end to end. Only generation failures abort
// the run; everything downstream degrades into the result record.
func (r *Runner) Run(ctx context.Context, workflowID, request string) (*domain.RunResult, error) {
	result := &domain.RunResult{
		WorkflowID: workflowID,
		Validation: domain.ValidationResult{Status: domain.StatusSkipped},
	}

	if strings.TrimSpace(request) == "" {
		result.Status = StatusNoSpec
		return result, domain.NewError("generate", "", "no specification provided", nil)
	}

	prompt, err := r.prompt.Build(request)
	if err != nil {
		result.Status = StatusGenerationFailed
		return result, err
	}

	r.log.Infof("requesting design generation for workflow %s", workflowID)
	raw, err := r.client.Complete(ctx, prompt)
	if err != nil {
		result.Status = StatusGenerationFailed
		return result, err
	}
	if strings.TrimSpace(raw) == "" {
		result.Status = StatusGenerationFailed
		return result, domain.NewError("generate", "", "backend returned empty output", nil)
	}

	paths := workflow.Paths{Root: r.cfg.Workflow.RootDir, ID: workflowID}
	result.WorkflowDir = paths.Dir()
	result.RawPath = paths.RawOutput()
	result.LogPath = paths.CompileLog()

	if !r.cfg.DryRun {
		if err := paths.EnsureDir(); err != nil {
			return result, err
		}
		if err := os.WriteFile(result.RawPath, []byte(raw), 0644); err != nil {
			return result, domain.NewError("generate", result.RawPath,
				"failed to save raw backend output", err)
		}
		r.log.Infof("saved raw backend output to %s", result.RawPath)
	}

	segments := r.extractor.Extract(raw)
	spec := r.normalizer.Normalize(segments.Metadata)
	_, result.Hierarchical = spec.(domain.HierarchicalSpec)

	result.SpecPath = paths.SpecFile(spec.SpecName())
	specWritten := r.writeSpec(spec, result)

	artifacts := r.resolver.Resolve(spec, segments)
	written, emitErrs := r.emitter.Emit(result.WorkflowDir, artifacts)
	for _, emitErr := range emitErrs {
		r.log.Errorf("%v", emitErr)
		result.InfraErrors = append(result.InfraErrors, emitErr.Error())
	}
	result.ArtifactPaths = written
	if len(written) > 0 {
		result.PrimaryArtifact = written[len(written)-1]
	}

	result.Validation, result.Status = r.validate(ctx, result)

	r.report(ctx, spec.SpecName(), result, specWritten)
	return result, nil
}

// writeSpec persists the normalized spec JSON and reports success.
func (r *Runner) writeSpec(spec domain.NormalizedSpec, result *domain.RunResult) bool {
	if r.cfg.DryRun {
		return false
	}

	encoded, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		r.log.Errorf("failed to encode spec for %s: %v", result.SpecPath, err)
		result.InfraErrors = append(result.InfraErrors, err.Error())
		return false
	}
	if err := os.WriteFile(result.SpecPath, encoded, 0644); err != nil {
		specErr := domain.NewError("normalize", result.SpecPath, "failed to write spec artifact", err)
		r.log.Errorf("%v", specErr)
		result.InfraErrors = append(result.InfraErrors, specErr.Error())
		return false
	}
	r.log.Infof("wrote normalized spec to %s", result.SpecPath)
	return true
}

// validate runs the syntax check when the design shape and configuration
// allow it, and returns the validation outcome plus the run status.
func (r *Runner) validate(ctx context.Context, result *domain.RunResult) (domain.ValidationResult, string) {
	skipped := domain.ValidationResult{Status: domain.StatusSkipped}

	switch {
	case result.Hierarchical:
		return skipped, StatusCheckSkippedHierarchy
	case r.cfg.DryRun:
		return skipped, StatusCheckSkipped
	case !r.cfg.Check.IsEnabled():
		r.log.Debug("syntax check disabled by configuration")
		return skipped, StatusCheckSkipped
	case result.PrimaryArtifact == "":
		r.log.Warn("no artifact available for syntax check")
		return skipped, StatusCheckSkipped
	}

	validation, err := r.checker.Check(ctx, result.PrimaryArtifact)
	if err != nil {
		r.log.Errorf("%v", err)
		result.InfraErrors = append(result.InfraErrors, err.Error())
		return validation, StatusCheckSkipped
	}

	switch validation.Status {
	case domain.StatusPassed:
		return validation, StatusCheckPassed
	default:
		return validation, StatusCompileFailed
	}
}
