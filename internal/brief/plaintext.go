package brief

import "strings"

// PlainTextReader passes a brief through with line endings normalized.
type PlainTextReader struct{}

// NewPlainTextReader creates a new PlainTextReader.
func NewPlainTextReader() *PlainTextReader {
	return &PlainTextReader{}
}

// SupportedExtensions returns the extensions this reader claims directly.
// As the registry fallback it also serves everything unregistered.
func (r *PlainTextReader) SupportedExtensions() []string {
	return []string{".txt"}
}

// Extract normalizes line endings and trims surrounding whitespace.
func (r *PlainTextReader) Extract(content []byte) (string, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
