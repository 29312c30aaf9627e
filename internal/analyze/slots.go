// Package analyze asks the backend which fields of a structured design
// spec still need answers from the user.
package analyze

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/llm"
)

const slotPrompt = `You receive a structured digital design spec as JSON. Identify the minimal
set of missing or ambiguous fields the user must fill to make it production
usable. Keep the list short (5 items or fewer when possible).

Return ONLY a JSON array of slots shaped like:
[
  { "path": "module.name", "ask": "What should the module be named?", "type": "string" },
  { "path": "clock_domains[0].frequency_mhz", "ask": "Frequency of core_clk (MHz)?", "type": "number" },
  { "path": "power_crossings[0].level_shifter", "ask": "Level shifter needed between domains?", "type": "enum",
    "options": ["required", "not_required", "unspecified"] }
]

Rules:
- Prefer essential semantics (clock frequency and edge, reset type and polarity, power domain states).
- Include clock or power domain crossings only when the spec makes them relevant.
- Do not ask for fields that are already specified.
- Do not output commentary; JSON only.`

// Slot is one question the user still has to answer.
type Slot struct {
	Path    string   `json:"path"`
	Ask     string   `json:"ask"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Detector finds unanswered slots in a structured spec.
type Detector interface {
	DetectMissingSlots(ctx context.Context, spec map[string]any) ([]Slot, error)
}

// DefaultDetector implements Detector over an LLM backend.
type DefaultDetector struct {
	client llm.Client
	log    *logrus.Logger
}

// NewDetector creates a new DefaultDetector.
func NewDetector(client llm.Client, log *logrus.Logger) *DefaultDetector {
	return &DefaultDetector{client: client, log: log}
}

// DetectMissingSlots sends the spec to the backend and returns the slots
// it proposes, minus any the spec already marks confirmed.
func (d *DefaultDetector) DetectMissingSlots(ctx context.Context, spec map[string]any) ([]Slot, error) {
	encoded, err := json.Marshal(spec)
	if err != nil {
		return nil, domain.NewError("analyze", "", "failed to encode spec for slot detection", err)
	}

	resp, err := d.client.Complete(ctx, slotPrompt+"\n\nSTRUCT:\n"+string(encoded))
	if err != nil {
		return nil, err
	}

	slots := safeJSONArray(resp)
	d.log.Debugf("backend proposed %d slots", len(slots))
	return filterConfirmed(slots, spec), nil
}

// safeJSONArray pulls the outermost JSON array out of a possibly chatty
// response. Anything unparseable degrades to no slots.
func safeJSONArray(resp string) []Slot {
	start := strings.Index(resp, "[")
	end := strings.LastIndex(resp, "]")
	if start < 0 || end < start {
		return nil
	}

	var slots []Slot
	if err := json.Unmarshal([]byte(resp[start:end+1]), &slots); err != nil {
		return nil
	}
	return slots
}

// filterConfirmed drops slots whose field the spec marks confirmed.
func filterConfirmed(slots []Slot, spec map[string]any) []Slot {
	filtered := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if slotConfirmed(slot.Path, spec) {
			continue
		}
		filtered = append(filtered, slot)
	}
	return filtered
}

// slotConfirmed walks the slot path through the spec. The _confirmed
// marker of the last node the walk reaches decides: when it names the
// final path segment, the user has already answered that field.
func slotConfirmed(path string, spec map[string]any) bool {
	parts := splitPath(path)
	if len(parts) == 0 {
		return false
	}

	var cursor any = spec
	var marker any
	for _, part := range parts {
		next, ok := step(cursor, part)
		if !ok {
			break
		}
		cursor = next
		marker = confirmedAt(cursor)
	}

	return marksConfirmed(marker, parts[len(parts)-1])
}

// splitPath cuts "a.b[0].c" into ["a", "b", "0", "c"].
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
}

// step descends one path segment. Numeric segments index lists; anything
// else keys into objects.
func step(cursor any, part string) (any, bool) {
	if idx, err := strconv.Atoi(part); err == nil && idx >= 0 {
		list, ok := cursor.([]any)
		if !ok || idx >= len(list) {
			return nil, false
		}
		return list[idx], true
	}

	m, ok := cursor.(map[string]any)
	if !ok {
		return nil, false
	}
	val, exists := m[part]
	if !exists {
		return nil, false
	}
	return val, true
}

// confirmedAt returns the _confirmed marker of v when v is an object.
func confirmedAt(v any) any {
	if m, ok := v.(map[string]any); ok {
		return m["_confirmed"]
	}
	return nil
}

// marksConfirmed reports whether the marker names field. Markers written
// as an object use their keys; markers written as a list use membership.
func marksConfirmed(marker any, field string) bool {
	switch m := marker.(type) {
	case map[string]any:
		_, ok := m[field]
		return ok
	case []any:
		for _, item := range m {
			if s, ok := item.(string); ok && s == field {
				return true
			}
		}
	}
	return false
}
