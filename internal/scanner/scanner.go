// Package scanner discovers past workflow runs under the workflow root
// directory and summarizes what each run produced.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/workflow"
)

// Summary describes one recorded workflow run.
type Summary struct {
	ID        string
	Dir       string
	Artifacts []string // emitted files, relative to the workflow directory
	Spec      string   // spec JSON file, empty when none was written
	Status    string   // status line of the run report, empty when none
}

// Scanner enumerates workflow runs.
type Scanner interface {
	Scan(rootDir string, excludes []string) ([]Summary, error)
}

// DirScanner implements Scanner over the local filesystem.
type DirScanner struct {
	log *logrus.Logger
}

// NewScanner creates a new DirScanner.
func NewScanner(log *logrus.Logger) *DirScanner {
	return &DirScanner{log: log}
}

// Scan reads the workflow root and returns one summary per workflow
// directory, in name order. Files whose base name is on the exclude list
// are not counted as artifacts (the syntax check output, typically). A
// missing root yields an empty result, not an error: no run has happened
// yet under that root.
func (s *DirScanner) Scan(rootDir string, excludes []string) ([]Summary, error) {
	entries, err := os.ReadDir(rootDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewError("scan", rootDir, "failed to read workflow root", err)
	}

	var runs []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runs = append(runs, s.scanRun(rootDir, entry.Name(), excludes))
	}
	return runs, nil
}

// scanRun collects the files of a single workflow directory.
func (s *DirScanner) scanRun(rootDir, id string, excludes []string) Summary {
	dir := filepath.Join(rootDir, id)
	run := Summary{ID: id, Dir: dir}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = d.Name()
		}

		switch {
		case rel == workflow.RawOutputFile:
		case rel == workflow.CompileLogFile:
			run.Status = reportStatus(path)
		case strings.HasSuffix(rel, "_spec.json"):
			run.Spec = rel
		case excluded(rel, excludes):
		default:
			run.Artifacts = append(run.Artifacts, rel)
		}
		return nil
	})
	if err != nil {
		s.log.Warnf("failed to scan workflow %s: %v", id, err)
	}

	return run
}

// reportStatus returns the status line of a run report: timestamp and
// module lines first, the status on the third line, diagnostics after.
func reportStatus(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(content), "\n")
	if len(lines) < 3 {
		return ""
	}
	return strings.TrimSpace(lines[2])
}

// excluded reports whether the file's base name is on the exclude list.
func excluded(rel string, excludes []string) bool {
	base := filepath.Base(rel)
	for _, name := range excludes {
		if base == name {
			return true
		}
	}
	return false
}
