// Package resolver maps each module of a normalized spec to exactly one
// output artifact. Resolution never fails: a module with no usable content
// source degrades to an empty artifact, which surfaces later as a
// validation failure rather than a resolution error.
package resolver

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/workflow"
)

// Resolver chooses file paths and content for every module in a spec.
type Resolver interface {
	Resolve(spec domain.NormalizedSpec, segs *domain.Segments) []domain.ResolvedArtifact
}

// DefaultResolver implements Resolver.
type DefaultResolver struct {
	cfg        config.ResolveConfig
	defaultKey string
	log        *logrus.Logger
}

// NewResolver creates a new DefaultResolver. defaultKey names the code
// block consulted when a flat design has no block matching its module name.
func NewResolver(cfg config.ResolveConfig, defaultKey string, log *logrus.Logger) *DefaultResolver {
	return &DefaultResolver{cfg: cfg, defaultKey: defaultKey, log: log}
}

// Resolve maps the spec onto an ordered artifact sequence. For
// hierarchical designs submodules come first and the top module last, so
// the final entry is always the design's primary artifact.
func (r *DefaultResolver) Resolve(spec domain.NormalizedSpec, segs *domain.Segments) []domain.ResolvedArtifact {
	switch s := spec.(type) {
	case domain.FlatSpec:
		return []domain.ResolvedArtifact{r.resolveFlat(s.Module, segs)}
	case domain.HierarchicalSpec:
		artifacts := make([]domain.ResolvedArtifact, 0, len(s.Modules)+1)
		for _, m := range s.Modules {
			artifacts = append(artifacts, r.resolveModule(m, segs))
		}
		if s.Top != nil {
			artifacts = append(artifacts, r.resolveModule(*s.Top, segs))
		}
		return artifacts
	case domain.ParseFailureSpec:
		// A failed parse still yields one artifact under the placeholder
		// name; code blocks may carry usable content even when the
		// metadata did not.
		return []domain.ResolvedArtifact{r.resolveFlat(domain.ModuleSpec{Name: s.SpecName()}, segs)}
	}
	return nil
}

// resolveFlat chooses content for a single-module design. Priority: the
// block named after the module, the default block, the first-inserted
// block, then inline code. A miss at any level degrades silently.
func (r *DefaultResolver) resolveFlat(m domain.ModuleSpec, segs *domain.Segments) domain.ResolvedArtifact {
	filename := workflow.SafeName(m.Name) + ".v"

	content, ok := segs.Lookup(filename)
	if !ok {
		content, ok = segs.Lookup(r.defaultKey)
	}
	if !ok {
		var first domain.CodeBlock
		if first, ok = segs.First(); ok {
			content = first.Content
		}
	}
	if !ok {
		content = m.InlineCode
	}

	return domain.ResolvedArtifact{
		Path:    filename,
		Content: r.cleanup(content),
		Module:  m.Name,
	}
}

// resolveModule chooses content for one module of a hierarchical design.
// Priority: the module's inline code, then the block matching its
// filename, then empty.
func (r *DefaultResolver) resolveModule(m domain.ModuleSpec, segs *domain.Segments) domain.ResolvedArtifact {
	filename := r.artifactName(m)

	content := strings.TrimSpace(m.InlineCode)
	if content == "" {
		if block, ok := segs.Lookup(filename); ok {
			content = block
		}
	}

	return domain.ResolvedArtifact{
		Path:    filename,
		Content: r.cleanup(content),
		Module:  m.Name,
	}
}

// artifactName returns the module's output filename. Caller-supplied
// rtl_output_file values must stay inside the workflow directory; absolute
// paths and parent traversal fall back to the module-name default, which
// is itself made filename-safe.
func (r *DefaultResolver) artifactName(m domain.ModuleSpec) string {
	name := m.RTLOutputFile
	if name == "" {
		return workflow.SafeName(m.Name) + ".v"
	}
	if !safeRelPath(name) {
		r.log.Warnf("rejecting unsafe rtl_output_file %q for module %s", name, m.Name)
		return workflow.SafeName(m.Name) + ".v"
	}
	return name
}

// cleanup applies the configured content hooks.
func (r *DefaultResolver) cleanup(content string) string {
	content = strings.TrimSpace(content)
	if r.cfg.StripFences {
		content = StripFences(content)
	}
	if r.cfg.CleanupPorts {
		content = CleanupPortDecls(content)
	}
	return content
}

// safeRelPath reports whether path is relative and free of parent
// traversal after cleaning.
func safeRelPath(path string) bool {
	if filepath.IsAbs(path) {
		return false
	}
	clean := filepath.Clean(path)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
