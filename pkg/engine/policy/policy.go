// Package policy drops assembled edges that match user CEL rules.
package policy

import (
	"fmt"

	"github.com/DrSkyle/dtigraph/pkg/graph"
	"gopkg.in/yaml.v3"
)

const (
	ActionDrop = "drop"
	ActionKeep = "keep"
)

// EdgeFacts is what a rule sees of one edge. Kind reaches rules as the
// string `kind`, e.g. kind == "dti".
type EdgeFacts struct {
	Kind   graph.Kind
	Source string
	Target string
	Weight float64
	Focal  string
}

func (f EdgeFacts) vars() map[string]interface{} {
	return map[string]interface{}{
		"kind":   string(f.Kind),
		"source": f.Source,
		"target": f.Target,
		"weight": f.Weight,
		"focal":  f.Focal,
	}
}

// RuleFile is the on-disk layout of a rules document.
type RuleFile struct {
	Rules []DynamicRule `yaml:"rules"`
}

// ParseRules reads a YAML rules document. Missing actions default to drop.
func ParseRules(data []byte) ([]DynamicRule, error) {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	for i := range f.Rules {
		r := &f.Rules[i]
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule_%d", i+1)
		}
		switch r.Action {
		case "":
			r.Action = ActionDrop
		case ActionDrop, ActionKeep:
		default:
			return nil, fmt.Errorf("rule %s: unknown action %q", r.ID, r.Action)
		}
	}
	return f.Rules, nil
}

// Filter decides which edges survive.
type Filter struct {
	engine *CELEngine
}

// NewFilter compiles rules. A filter with no rules keeps every edge.
func NewFilter(rules []DynamicRule) (*Filter, error) {
	eng, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	if err := eng.Compile(rules); err != nil {
		return nil, err
	}
	return &Filter{engine: eng}, nil
}

// Keep reports whether the edge survives and which rule decided it. The
// first matching rule wins; a keep rule shields the edge from later drops.
func (f *Filter) Keep(edge EdgeFacts) (bool, string) {
	if f == nil || f.engine.Len() == 0 {
		return true, ""
	}
	matches := f.engine.Evaluate(edge)
	if len(matches) == 0 {
		return true, ""
	}
	return matches[0].Action != ActionDrop, matches[0].ID
}
