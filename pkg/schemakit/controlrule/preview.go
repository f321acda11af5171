package controlrule

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
)

// PreviewResult is the outcome of Preview: the validation result plus,
// when ALLOWED, the boolean value the formula evaluates to against the
// supplied field values.
type PreviewResult struct {
	Validation Result
	Evaluated  bool
	Value      bool
}

// Preview validates a rule, then — only if ALLOWED — evaluates it against
// values using the same operator/function semantics the analyzer
// type-checks, sharing one evaluator between analysis and preview. No persistence, no I/O;
// values is a caller-supplied in-memory field_id -> value map, never a
// repository read.
func Preview(text string, fields formula.FieldSet, values map[string]any) (PreviewResult, error) {
	result := Validate(text, fields)
	if !result.IsAllowed() || result.Status == StatusCleared {
		return PreviewResult{Validation: result}, nil
	}

	out, err := formula.Evaluate(text, values)
	if err != nil {
		return PreviewResult{Validation: result}, err
	}
	b, ok := out.(bool)
	if !ok {
		return PreviewResult{Validation: result}, nil
	}
	return PreviewResult{Validation: result, Evaluated: true, Value: b}, nil
}
