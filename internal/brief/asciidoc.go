package brief

import (
	"regexp"
	"strings"
)

// AsciiDocReader flattens an asciidoc brief using line patterns.
type AsciiDocReader struct{}

// NewAsciiDocReader creates a new AsciiDocReader.
func NewAsciiDocReader() *AsciiDocReader {
	return &AsciiDocReader{}
}

var (
	// Matches = Title, == Section, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={1,6})\s+(.+)$`)
	// Matches block attribute lines like [source,verilog] or [NOTE].
	asciidocAttrListRe = regexp.MustCompile(`^\[[^\]]*\]\s*$`)
	// Matches ---- listing delimiters.
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
	// Matches document attribute entries like :toc: left.
	asciidocDocAttrRe = regexp.MustCompile(`^:[^:\s]+:.*$`)
	// Matches * bullets at any nesting depth.
	asciidocBulletRe = regexp.MustCompile(`^\*+\s+`)
)

// SupportedExtensions returns the file extensions this reader handles.
func (r *AsciiDocReader) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

// Extract strips asciidoc markup line by line: heading markers, comment
// lines, attribute entries, and listing delimiters go away while heading
// text, prose, bullet text, and listing bodies stay.
func (r *AsciiDocReader) Extract(content []byte) (string, error) {
	lines := strings.Split(string(content), "\n")

	var out []string
	inListing := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if asciidocDelimRe.MatchString(trimmed) {
			inListing = !inListing
			continue
		}
		if inListing {
			out = append(out, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "//"):
		case asciidocDocAttrRe.MatchString(trimmed):
		case asciidocAttrListRe.MatchString(trimmed):
		case asciidocHeadingRe.MatchString(trimmed):
			m := asciidocHeadingRe.FindStringSubmatch(trimmed)
			out = append(out, m[2])
		case asciidocBulletRe.MatchString(trimmed):
			out = append(out, asciidocBulletRe.ReplaceAllString(trimmed, ""))
		default:
			out = append(out, line)
		}
	}

	return collapseBlankRuns(out), nil
}
