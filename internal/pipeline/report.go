package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/registry"
)

// report writes the compile log and forwards artifact records to the
// registry. Both halves are best-effort: a dry run skips them entirely,
// and failures never change the result already computed.
func (r *Runner) report(ctx context.Context, moduleName string, result *domain.RunResult, specWritten bool) {
	if r.cfg.DryRun {
		r.log.Infof("[DRY-RUN] Workflow %s finished: %s", result.WorkflowID, result.Status)
		return
	}

	logWritten := r.writeCompileLog(moduleName, result)

	for _, path := range result.ArtifactPaths {
		r.appendRecord(ctx, result.WorkflowID, registry.KeyRTLOutput, path)
	}
	if logWritten {
		r.appendRecord(ctx, result.WorkflowID, registry.KeyCompileLog, result.LogPath)
	}
	if specWritten {
		r.appendRecord(ctx, result.WorkflowID, registry.KeyDesignSpec, result.SpecPath)
	}

	r.log.Infof("workflow %s finished: %s", result.WorkflowID, result.Status)
}

// writeCompileLog writes the human-readable run summary next to the
// artifacts. Compile diagnostics are appended when the check failed.
func (r *Runner) writeCompileLog(moduleName string, result *domain.RunResult) bool {
	var b strings.Builder
	fmt.Fprintf(&b, "Spec processed at %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Module: %s\n", moduleName)
	fmt.Fprintf(&b, "%s\n", result.Status)
	if result.Validation.Status == domain.StatusFailedCompile && result.Validation.Diagnostics != "" {
		fmt.Fprintf(&b, "\n%s\n", result.Validation.Diagnostics)
	}

	if err := os.WriteFile(result.LogPath, []byte(b.String()), 0644); err != nil {
		logErr := domain.NewError("report", result.LogPath, "failed to write compile log", err)
		r.log.Errorf("%v", logErr)
		result.InfraErrors = append(result.InfraErrors, logErr.Error())
		return false
	}
	return true
}

// appendRecord forwards one artifact record, logging failures only.
func (r *Runner) appendRecord(ctx context.Context, workflowID, key, path string) {
	if err := r.registry.Append(ctx, workflowID, key, path); err != nil {
		r.log.Warnf("registry append failed for %s: %v", key, err)
	}
}
