// Package workflow resolves the on-disk layout of a single pipeline run.
// Every run is keyed by a workflow ID and owns one directory under the
// configured root; all artifacts for the run land inside that directory.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Well-known artifact file names inside a workflow directory.
const (
	RawOutputFile  = "llm_raw_output.txt"
	CompileLogFile = "compile.log"
)

// NewID mints a fresh workflow identifier.
func NewID() string {
	return uuid.NewString()
}

// SafeName reduces a design name to a single filename-safe path component.
// Anything outside letters, digits, underscore, dash, and dot becomes an
// underscore; surrounding dots are dropped. Metadata names come from the
// backend and must never select a path outside the workflow directory.
func SafeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '_', c == '-', c == '.':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	name = strings.Trim(b.String(), ".")
	if name == "" {
		return domain.AutoModuleName
	}
	return name
}

// Paths resolves file locations for one workflow run.
type Paths struct {
	Root string
	ID   string
}

// Dir returns the workflow directory.
func (p Paths) Dir() string {
	return filepath.Join(p.Root, p.ID)
}

// RawOutput returns the path of the raw backend output dump.
func (p Paths) RawOutput() string {
	return filepath.Join(p.Dir(), RawOutputFile)
}

// CompileLog returns the path of the human-readable run report.
func (p Paths) CompileLog() string {
	return filepath.Join(p.Dir(), CompileLogFile)
}

// SpecFile returns the path of the normalized spec artifact for a design
// name. The name is made filename-safe first.
func (p Paths) SpecFile(name string) string {
	return filepath.Join(p.Dir(), fmt.Sprintf("%s_spec.json", SafeName(name)))
}

// Artifact returns the path of a named artifact inside the workflow directory.
func (p Paths) Artifact(name string) string {
	return filepath.Join(p.Dir(), name)
}

// EnsureDir creates the workflow directory if it does not exist.
func (p Paths) EnsureDir() error {
	return os.MkdirAll(p.Dir(), 0755)
}
