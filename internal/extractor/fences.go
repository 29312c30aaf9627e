package extractor

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// fenceLanguages are the info-string languages preferred when scanning
// markdown fences for a code segment.
var fenceLanguages = map[string]bool{
	"verilog":       true,
	"systemverilog": true,
	"v":             true,
	"sv":            true,
}

// FencedScanner captures a markdown fenced code block when the backend
// ignored the marker protocol and answered with fences instead. The block
// maps to the configured default filename.
type FencedScanner struct {
	defaultKey string
}

// NewFencedScanner creates a FencedScanner that stores the captured block
// under defaultKey.
func NewFencedScanner(defaultKey string) *FencedScanner {
	return &FencedScanner{defaultKey: defaultKey}
}

// Name identifies the scanner in debug output.
func (s *FencedScanner) Name() string { return "fenced" }

// Scan parses the raw text as markdown and captures the first fenced block
// with a known hardware language, falling back to the first non-empty
// fenced block of any language.
func (s *FencedScanner) Scan(raw string) (*domain.Segments, bool) {
	content := []byte(raw)
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var first string
	var haveFirst bool
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(content))
		}
		code := strings.TrimSpace(buf.String())
		if code == "" {
			return ast.WalkContinue, nil
		}

		if fenceLanguages[strings.ToLower(string(fence.Language(content)))] {
			first = code
			haveFirst = true
			return ast.WalkStop, nil
		}
		if !haveFirst {
			first = code
			haveFirst = true
		}
		return ast.WalkContinue, nil
	})

	if !haveFirst {
		return nil, false
	}
	return &domain.Segments{
		Metadata: metadataBefore(raw, "```"),
		Blocks: []domain.CodeBlock{{
			Filename: s.defaultKey,
			Content:  first,
		}},
	}, true
}
