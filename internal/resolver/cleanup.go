package resolver

import "strings"

// portKeywords mark a line as a port declaration.
var portKeywords = []string{"input", "output", "inout"}

// declWords are skipped when collecting signal tokens from a declaration.
var declWords = map[string]bool{
	"input":  true,
	"output": true,
	"inout":  true,
	"wire":   true,
	"reg":    true,
	"logic":  true,
}

// StripFences removes markdown code fence lines that backends sometimes
// wrap around code despite instructions not to.
func StripFences(code string) string {
	lines := strings.Split(code, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// CleanupPortDecls drops port declaration lines that redeclare a signal
// seen on an earlier declaration. Backends occasionally emit the same
// port in both the module header and the body.
func CleanupPortDecls(code string) string {
	lines := strings.Split(code, "\n")
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if isPortDecl(stripped) {
			sigs := signalTokens(stripped)
			if anySeen(seen, sigs) {
				continue
			}
			for _, sig := range sigs {
				seen[sig] = true
			}
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// isPortDecl reports whether the line contains a port direction keyword.
func isPortDecl(line string) bool {
	for _, kw := range portKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// signalTokens returns the tokens of a declaration line that name signals
// rather than types or directions.
func signalTokens(line string) []string {
	tokens := strings.Fields(strings.ReplaceAll(line, ";", ""))
	var sigs []string
	for _, t := range tokens {
		if !declWords[t] {
			sigs = append(sigs, t)
		}
	}
	return sigs
}

// anySeen reports whether any signal was already declared.
func anySeen(seen map[string]bool, sigs []string) bool {
	for _, s := range sigs {
		if seen[s] {
			return true
		}
	}
	return false
}
