// Package brief loads a design request from an engineer-written brief
// file. Markup formats are flattened to plain request text so the prompt
// carries the brief's prose and embedded code, not its formatting syntax.
package brief

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Reader extracts request text from one brief format.
type Reader interface {
	Extract(content []byte) (string, error)
	SupportedExtensions() []string
}

// Registry maps file extensions to readers, with fallback support.
type Registry struct {
	mu       sync.RWMutex
	readers  map[string]Reader
	fallback Reader
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its supported extensions.
func (r *Registry) Register(reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range reader.SupportedExtensions() {
		r.readers[strings.TrimPrefix(ext, ".")] = reader
	}
}

// SetFallback sets the reader used for unregistered extensions.
func (r *Registry) SetFallback(reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = reader
}

// ReaderFor returns the reader registered for the given file extension.
// If no reader is found, it returns the fallback reader if set.
func (r *Registry) ReaderFor(extension string) (Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.TrimPrefix(extension, ".")
	if reader, ok := r.readers[ext]; ok {
		return reader, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no reader registered for extension %q", extension)
}

// builtinRegistry wires the stock readers: markdown and asciidoc by
// extension, plain text for everything else.
func builtinRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewMarkdownReader())
	reg.Register(NewAsciiDocReader())
	reg.SetFallback(NewPlainTextReader())
	return reg
}

// Load reads a brief file and extracts its request text using the
// built-in readers.
func Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewErrorWithSuggestion("brief", path,
			"failed to read brief file",
			"check that the file exists and has read permissions", err)
	}

	reader, err := builtinRegistry().ReaderFor(filepath.Ext(path))
	if err != nil {
		return "", domain.NewError("brief", path, "unsupported brief format", err)
	}

	request, err := reader.Extract(content)
	if err != nil {
		return "", domain.NewError("brief", path, "failed to extract request text", err)
	}
	if strings.TrimSpace(request) == "" {
		return "", domain.NewError("brief", path, "brief file contains no request text", nil)
	}
	return request, nil
}

// joinBlocks joins non-empty text blocks with blank lines.
func joinBlocks(parts []string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// collapseBlankRuns joins lines, folding consecutive blank lines into one.
func collapseBlankRuns(lines []string) string {
	var out []string
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.Join(out, "\n")
}
