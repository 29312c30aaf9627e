// Package extractor splits raw backend output into a metadata segment and
// an ordered set of named code blocks. Extraction is total: malformed
// delimiter text yields fewer blocks, never an error.
package extractor

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// beginPrefix is the literal that opens any delimited code segment. The
// metadata segment is everything before its first occurrence.
const beginPrefix = "---BEGIN"

// reservedToken labels a code segment that carries no filename of its own.
// The marker scanner treats it as opaque; the fallback scanner maps it to
// the configured default key.
const reservedToken = "VERILOG"

var (
	// Matches ---BEGIN <token>--- alone on a line.
	beginMarkerRe = regexp.MustCompile(`^---BEGIN\s+([\w.-]+)---$`)
	// Matches ---END <token>--- alone on a line.
	endMarkerRe = regexp.MustCompile(`^---END\s+([\w.-]+)---$`)
)

// Scanner captures code blocks from raw text under one delimiter protocol.
// A scanner reports ok only when it captured at least one block.
type Scanner interface {
	Name() string
	Scan(raw string) (*domain.Segments, bool)
}

// Extractor splits raw backend output into segments.
type Extractor interface {
	Extract(raw string) *domain.Segments
}

// DefaultExtractor implements Extractor with a prioritized scanner chain:
// the first scanner that captures any block wins.
type DefaultExtractor struct {
	scanners []Scanner
	log      *logrus.Logger
}

// NewExtractor creates a DefaultExtractor with the scanner chain selected
// by the extract configuration.
func NewExtractor(cfg config.ExtractConfig, log *logrus.Logger) *DefaultExtractor {
	scanners := []Scanner{
		NewMarkerScanner(),
		NewFallbackScanner(cfg.DefaultKey),
	}
	if cfg.FileBlocks {
		scanners = append(scanners, NewFileBlockScanner())
	}
	if cfg.FencedFallback {
		scanners = append(scanners, NewFencedScanner(cfg.DefaultKey))
	}
	return &DefaultExtractor{scanners: scanners, log: log}
}

// Extract runs the scanner chain over the raw text.
func (e *DefaultExtractor) Extract(raw string) *domain.Segments {
	for _, s := range e.scanners {
		segs, ok := s.Scan(raw)
		if !ok {
			continue
		}
		e.log.Debugf("scanner %q captured %d code block(s)", s.Name(), len(segs.Blocks))
		segs.Blocks = e.dedupe(segs.Blocks)
		return segs
	}

	e.log.Warn("no code block markers found in backend output")
	return &domain.Segments{Metadata: metadataBefore(raw, beginPrefix)}
}

// dedupe enforces unique block filenames: the first appearance keeps its
// position, the last appearance keeps its content.
func (e *DefaultExtractor) dedupe(blocks []domain.CodeBlock) []domain.CodeBlock {
	index := make(map[string]int, len(blocks))
	out := blocks[:0]
	for _, b := range blocks {
		if at, seen := index[b.Filename]; seen {
			e.log.Warnf("duplicate code block %q, keeping the latest content", b.Filename)
			out[at].Content = b.Content
			continue
		}
		index[b.Filename] = len(out)
		out = append(out, b)
	}
	return out
}

// MarkerScanner captures named segments delimited by paired
// ---BEGIN <token>--- / ---END <token>--- lines.
type MarkerScanner struct{}

// NewMarkerScanner creates a new MarkerScanner.
func NewMarkerScanner() *MarkerScanner { return &MarkerScanner{} }

// Name identifies the scanner in debug output.
func (s *MarkerScanner) Name() string { return "marker" }

// Scan walks lines left to right, non-overlapping. A begin marker with no
// matching end token is skipped, not fatal. Reserved-token segments are
// consumed without capture; the fallback scanner owns them.
func (s *MarkerScanner) Scan(raw string) (*domain.Segments, bool) {
	lines := strings.Split(raw, "\n")

	var blocks []domain.CodeBlock
	for i := 0; i < len(lines); i++ {
		m := beginMarkerRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		token := m[1]

		end := findEnd(lines, i+1, token)
		if end < 0 {
			continue // unterminated, skip the begin line only
		}
		if token == reservedToken {
			i = end
			continue
		}

		blocks = append(blocks, domain.CodeBlock{
			Filename: token,
			Content:  strings.TrimSpace(strings.Join(lines[i+1:end], "\n")),
		})
		i = end
	}

	if len(blocks) == 0 {
		return nil, false
	}
	return &domain.Segments{
		Metadata: metadataBefore(raw, beginPrefix),
		Blocks:   blocks,
	}, true
}

// FallbackScanner captures a single reserved-token segment when no named
// segments exist, mapping it to the configured default filename.
type FallbackScanner struct {
	defaultKey string
}

// NewFallbackScanner creates a FallbackScanner that stores the captured
// segment under defaultKey.
func NewFallbackScanner(defaultKey string) *FallbackScanner {
	return &FallbackScanner{defaultKey: defaultKey}
}

// Name identifies the scanner in debug output.
func (s *FallbackScanner) Name() string { return "fallback" }

// Scan captures the first well-formed reserved-token pair.
func (s *FallbackScanner) Scan(raw string) (*domain.Segments, bool) {
	lines := strings.Split(raw, "\n")
	for i := 0; i < len(lines); i++ {
		m := beginMarkerRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil || m[1] != reservedToken {
			continue
		}
		end := findEnd(lines, i+1, reservedToken)
		if end < 0 {
			continue
		}
		return &domain.Segments{
			Metadata: metadataBefore(raw, beginPrefix),
			Blocks: []domain.CodeBlock{{
				Filename: s.defaultKey,
				Content:  strings.TrimSpace(strings.Join(lines[i+1:end], "\n")),
			}},
		}, true
	}
	return nil, false
}

// findEnd returns the index of the first ---END <token>--- line at or
// after from, or -1 when no end marker matches the token.
func findEnd(lines []string, from int, token string) int {
	for j := from; j < len(lines); j++ {
		m := endMarkerRe.FindStringSubmatch(strings.TrimSpace(lines[j]))
		if m != nil && m[1] == token {
			return j
		}
	}
	return -1
}

// metadataBefore returns the trimmed text preceding the first occurrence
// of marker, or the whole trimmed text when marker is absent.
func metadataBefore(raw, marker string) string {
	if idx := strings.Index(raw, marker); idx >= 0 {
		return strings.TrimSpace(raw[:idx])
	}
	return strings.TrimSpace(raw)
}
