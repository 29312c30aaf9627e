// Package emitter persists resolved artifacts into a workflow directory.
package emitter

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Emitter writes resolved artifacts to disk.
type Emitter interface {
	Emit(dir string, artifacts []domain.ResolvedArtifact) ([]string, []error)
}

// DefaultEmitter implements Emitter on the local filesystem.
type DefaultEmitter struct {
	dryRun bool
	log    *logrus.Logger
}

// NewEmitter creates a new DefaultEmitter. In dry-run mode nothing is
// written; intended paths are logged and reported instead.
func NewEmitter(dryRun bool, log *logrus.Logger) *DefaultEmitter {
	return &DefaultEmitter{dryRun: dryRun, log: log}
}

// Emit writes every artifact under dir, overwriting existing files and
// creating parent directories as needed. A write failure is recorded and
// skipped; the remaining artifacts are still written. Returned paths are
// the successfully written files, in emit order.
func (e *DefaultEmitter) Emit(dir string, artifacts []domain.ResolvedArtifact) ([]string, []error) {
	var written []string
	var errs []error

	for _, a := range artifacts {
		path := filepath.Join(dir, a.Path)

		if e.dryRun {
			e.log.Infof("[DRY-RUN] Would write: %s (%d chars)", path, len(a.Content))
			written = append(written, path)
			continue
		}

		if parent := filepath.Dir(path); parent != "." {
			if err := os.MkdirAll(parent, 0755); err != nil {
				errs = append(errs, domain.NewErrorWithSuggestion("emit", path,
					"failed to create artifact directory",
					"check write permissions for the workflow directory", err))
				continue
			}
		}

		if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
			errs = append(errs, domain.NewErrorWithSuggestion("emit", path,
				"failed to write artifact",
				"check disk space and write permissions for the workflow directory", err))
			continue
		}

		e.log.Infof("wrote %d chars to %s", len(a.Content), path)
		written = append(written, path)
	}

	return written, errs
}
