package domain

import "encoding/json"

// AutoModuleName is assigned to any module whose metadata carries no usable
// name field.
const AutoModuleName = "auto_module"

// CodeBlock is one delimited code segment captured from raw backend output.
type CodeBlock struct {
	Filename string
	Content  string
}

// Segments is the split view of one raw backend output: the metadata text
// preceding the first code marker plus the ordered code blocks that follow.
// Block order is the order of first appearance and is significant for
// fallback resolution.
type Segments struct {
	Metadata string
	Blocks   []CodeBlock
}

// Lookup returns the content stored under filename.
func (s *Segments) Lookup(filename string) (string, bool) {
	for _, b := range s.Blocks {
		if b.Filename == filename {
			return b.Content, true
		}
	}
	return "", false
}

// First returns the first-inserted code block.
func (s *Segments) First() (CodeBlock, bool) {
	if len(s.Blocks) == 0 {
		return CodeBlock{}, false
	}
	return s.Blocks[0], true
}

// ModuleSpec is one logical design unit from the metadata segment. Ports and
// Functionality are carried as free-form JSON values: their shape is decided
// by the generation backend and never interpreted here.
type ModuleSpec struct {
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	Ports         any    `json:"ports,omitempty"`
	Functionality any    `json:"functionality,omitempty"`
	RTLOutputFile string `json:"rtl_output_file,omitempty"`
	InlineCode    string `json:"inline_code,omitempty"`
}

// NormalizedSpec is the canonical result of normalizing a metadata segment.
// It is a closed union: FlatSpec, HierarchicalSpec, or ParseFailureSpec.
// Every consumer must handle all three variants.
type NormalizedSpec interface {
	// SpecName is the canonical design name used for the spec artifact file.
	SpecName() string
	normalizedSpec()
}

// FlatSpec describes a single-module design.
type FlatSpec struct {
	Module ModuleSpec
}

func (FlatSpec) normalizedSpec() {}

// SpecName returns the flat module's canonical name.
func (f FlatSpec) SpecName() string { return f.Module.Name }

// MarshalJSON renders the flat spec as the bare module object.
func (f FlatSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Module)
}

// HierarchicalSpec describes a multi-module design. Top is nil when the
// metadata names no top module; consumers must not synthesize one.
type HierarchicalSpec struct {
	Name    string
	Modules []ModuleSpec
	Top     *ModuleSpec
}

func (HierarchicalSpec) normalizedSpec() {}

// SpecName returns the canonical design-level name.
func (h HierarchicalSpec) SpecName() string { return h.Name }

// MarshalJSON renders the canonical hierarchy wrapper.
func (h HierarchicalSpec) MarshalJSON() ([]byte, error) {
	modules := h.Modules
	if modules == nil {
		modules = []ModuleSpec{}
	}
	type hierarchy struct {
		Modules []ModuleSpec `json:"modules"`
		Top     *ModuleSpec  `json:"top_module,omitempty"`
	}
	return json.Marshal(struct {
		Name      string    `json:"name,omitempty"`
		Hierarchy hierarchy `json:"hierarchy"`
	}{h.Name, hierarchy{modules, h.Top}})
}

// ParseFailureSpec preserves a metadata segment that could not be parsed.
// It is a diagnostic variant, not an error: the pipeline continues and the
// raw text is kept for inspection.
type ParseFailureSpec struct {
	Raw string
}

func (ParseFailureSpec) normalizedSpec() {}

// SpecName returns the placeholder module name.
func (ParseFailureSpec) SpecName() string { return AutoModuleName }

// MarshalJSON renders the diagnostic placeholder object.
func (p ParseFailureSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description"`
		Raw         string `json:"raw"`
	}{"metadata parse failed", p.Raw})
}

// ResolvedArtifact is one file to emit. Path is relative to the workflow
// directory. Content may legitimately be empty.
type ResolvedArtifact struct {
	Path    string
	Content string
	Module  string
}

// ValidationStatus is the outcome class of the syntax check.
type ValidationStatus string

const (
	StatusPassed        ValidationStatus = "passed"
	StatusSkipped       ValidationStatus = "skipped"
	StatusFailedCompile ValidationStatus = "failed_compilation"
)

// ValidationResult is the outcome of the syntax check on one design.
type ValidationResult struct {
	Status      ValidationStatus `json:"status"`
	Diagnostics string           `json:"diagnostics,omitempty"`
}

// RunResult is the record returned for one pipeline run.
type RunResult struct {
	WorkflowID      string           `json:"workflow_id"`
	WorkflowDir     string           `json:"workflow_dir"`
	SpecPath        string           `json:"spec_path,omitempty"`
	RawPath         string           `json:"raw_path,omitempty"`
	LogPath         string           `json:"log_path,omitempty"`
	PrimaryArtifact string           `json:"primary_artifact,omitempty"`
	ArtifactPaths   []string         `json:"artifact_paths,omitempty"`
	Hierarchical    bool             `json:"hierarchical"`
	Validation      ValidationResult `json:"validation"`
	Status          string           `json:"status"`
	InfraErrors     []string         `json:"infra_errors,omitempty"`
}
