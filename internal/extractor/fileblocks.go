package extractor

import (
	"strings"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// filePrefix labels the start of one file in path-labeled output.
const filePrefix = "FILE: "

// FileBlockScanner captures segments labeled by FILE: <path> lines, an
// alternate protocol used by backends that answer with whole file sets.
type FileBlockScanner struct{}

// NewFileBlockScanner creates a new FileBlockScanner.
func NewFileBlockScanner() *FileBlockScanner { return &FileBlockScanner{} }

// Name identifies the scanner in debug output.
func (s *FileBlockScanner) Name() string { return "fileblock" }

// Scan accumulates lines under each FILE: label until the next label.
// Text before the first label is the metadata segment. A label with an
// empty path ends the current block without opening a new one.
func (s *FileBlockScanner) Scan(raw string) (*domain.Segments, bool) {
	lines := strings.Split(raw, "\n")

	var blocks []domain.CodeBlock
	var meta []string
	var buf []string
	current := ""

	flush := func() {
		if current == "" {
			return
		}
		blocks = append(blocks, domain.CodeBlock{
			Filename: current,
			Content:  strings.TrimSpace(strings.Join(buf, "\n")),
		})
	}

	for _, line := range lines {
		if strings.HasPrefix(line, filePrefix) {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, filePrefix))
			buf = buf[:0]
			continue
		}
		if current == "" {
			meta = append(meta, line)
			continue
		}
		buf = append(buf, line)
	}
	flush()

	if len(blocks) == 0 {
		return nil, false
	}
	return &domain.Segments{
		Metadata: strings.TrimSpace(strings.Join(meta, "\n")),
		Blocks:   blocks,
	}, true
}
