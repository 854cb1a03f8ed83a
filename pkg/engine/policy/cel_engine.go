package policy

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// DynamicRule represents a user-defined edge rule (e.g. from YAML).
type DynamicRule struct {
	ID        string `json:"id" yaml:"id"`
	Condition string `json:"condition" yaml:"condition"` // CEL expression: "kind == 'ddi' && weight < 0.5"
	Action    string `json:"action" yaml:"action"`       // "drop", "keep"
}

// CELEngine manages the compilation and execution of dynamic rules.
// Programs run in the order their rules were compiled.
type CELEngine struct {
	env      *cel.Env
	rules    []DynamicRule
	programs []cel.Program
}

// NewCELEngine initializes the CEL environment with the edge variables.
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("kind", decls.String),
			decls.NewVar("source", decls.String),
			decls.NewVar("target", decls.String),
			decls.NewVar("weight", decls.Double),
			decls.NewVar("focal", decls.String),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &CELEngine{env: env}, nil
}

// Compile compiles a list of rules into executable programs.
func (e *CELEngine) Compile(rules []DynamicRule) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return fmt.Errorf("rule %s: condition must be a bool, got %s", r.ID, ast.OutputType())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.rules = append(e.rules, r)
		e.programs = append(e.programs, prg)
	}
	return nil
}

// Evaluate returns the rules whose condition holds for the edge.
func (e *CELEngine) Evaluate(edge EdgeFacts) []DynamicRule {
	var matches []DynamicRule
	vars := edge.vars()

	for i, prg := range e.programs {
		out, _, err := prg.Eval(vars)
		if err != nil {
			slog.Error("Rule evaluation failed", "rule_id", e.rules[i].ID, "error", err)
			continue
		}

		if match, ok := out.Value().(bool); ok && match {
			matches = append(matches, e.rules[i])
		}
	}

	return matches
}

// Len returns the number of compiled rules.
func (e *CELEngine) Len() int { return len(e.programs) }
