// Package normalizer parses the metadata segment of backend output into a
// canonical NormalizedSpec, collapsing degenerate hierarchy wrappers so
// downstream resolution always sees the simplest equivalent shape.
package normalizer

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// nameKeys are tried in order when resolving a module name.
var nameKeys = []string{"name", "module_name", "design_name"}

// Normalizer turns a metadata segment into a canonical NormalizedSpec.
// Normalization is a pure function of its input: identical metadata always
// yields a structurally identical result.
type Normalizer interface {
	Normalize(metadata string) domain.NormalizedSpec
}

// DefaultNormalizer implements Normalizer over JSON metadata.
type DefaultNormalizer struct {
	log *logrus.Logger
}

// NewNormalizer creates a new DefaultNormalizer.
func NewNormalizer(log *logrus.Logger) *DefaultNormalizer {
	return &DefaultNormalizer{log: log}
}

// Normalize parses metadata and applies the flatten rules. It never fails:
// unparseable metadata degrades to a ParseFailureSpec carrying the raw text.
func (n *DefaultNormalizer) Normalize(metadata string) domain.NormalizedSpec {
	var root map[string]any
	if err := json.Unmarshal([]byte(metadata), &root); err != nil || root == nil {
		n.log.Warnf("metadata is not a JSON object: %v", err)
		return domain.ParseFailureSpec{Raw: metadata}
	}

	raw, ok := root["hierarchy"]
	if !ok {
		return domain.FlatSpec{Module: moduleFromMap(root)}
	}
	hierarchy, ok := raw.(map[string]any)
	if !ok {
		n.log.Warn("hierarchy field is not an object, treating design as flat")
		return domain.FlatSpec{Module: moduleFromMap(root)}
	}

	modules := n.moduleMaps(hierarchy["modules"])
	top, _ := hierarchy["top_module"].(map[string]any)

	if flat, ok := n.flatten(modules, top); ok {
		return flat
	}

	spec := domain.HierarchicalSpec{Name: canonicalName(root)}
	for _, m := range modules {
		spec.Modules = append(spec.Modules, moduleFromMap(m))
	}
	if len(top) > 0 {
		topModule := moduleFromMap(top)
		spec.Top = &topModule
	}
	return spec
}

// flatten collapses degenerate hierarchy wrappers. Rules, first match wins:
// no modules with a top entry collapses to the top; a leading module that
// repeats the top name collapses to that module; a single module with no
// named top collapses to that module. Name comparison uses the raw name
// field, before canonicalization.
func (n *DefaultNormalizer) flatten(modules []map[string]any, top map[string]any) (domain.NormalizedSpec, bool) {
	if len(modules) == 0 && len(top) > 0 {
		n.log.Debug("flattening hierarchy with only a top module")
		return domain.FlatSpec{Module: moduleFromMap(top)}, true
	}

	topName := rawName(top)
	if len(modules) > 0 && topName != "" && topName == rawName(modules[0]) {
		n.log.Debug("flattening hierarchy with a redundant top module")
		return domain.FlatSpec{Module: moduleFromMap(modules[0])}, true
	}
	if len(modules) == 1 && topName == "" {
		n.log.Debug("flattening single-module hierarchy")
		return domain.FlatSpec{Module: moduleFromMap(modules[0])}, true
	}

	return nil, false
}

// moduleMaps filters a raw modules value down to its object entries.
func (n *DefaultNormalizer) moduleMaps(raw any) []map[string]any {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	var modules []map[string]any
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			n.log.Warnf("skipping non-object module entry %v", entry)
			continue
		}
		modules = append(modules, m)
	}
	return modules
}

// moduleFromMap builds a canonical ModuleSpec from a raw metadata object.
// Ports and functionality pass through uninterpreted.
func moduleFromMap(m map[string]any) domain.ModuleSpec {
	return domain.ModuleSpec{
		Name:          canonicalName(m),
		Description:   stringField(m, "description"),
		Ports:         m["ports"],
		Functionality: m["functionality"],
		RTLOutputFile: stringField(m, "rtl_output_file"),
		InlineCode:    inlineCode(m),
	}
}

// canonicalName resolves the module name from the first usable name key.
// Nameless modules get the auto module name.
func canonicalName(m map[string]any) string {
	for _, key := range nameKeys {
		if v := stringField(m, key); v != "" {
			return v
		}
	}
	return domain.AutoModuleName
}

// inlineCode accepts both inline_code and the legacy rtl_code field, the
// first non-empty wins.
func inlineCode(m map[string]any) string {
	if v := stringField(m, "inline_code"); v != "" {
		return v
	}
	return stringField(m, "rtl_code")
}

// rawName returns the literal name field, without canonicalization.
func rawName(m map[string]any) string {
	return stringField(m, "name")
}

// stringField returns the string value under key, or empty when the key is
// absent or not a string.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
