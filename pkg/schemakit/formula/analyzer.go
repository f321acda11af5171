// Package formula implements the formula AST, parser, and the pure analyzer
// operations: validation, dependency
// extraction, and cycle detection. Every operation here is a pure function
// of (text, schema_field_set) — no I/O, no repository access, no clock.
package formula

import (
	"fmt"
	"sort"

	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// FieldSet maps known field ids to their declared FieldType, the only
// schema context the analyzer consumes.
type FieldSet map[string]valuemodel.FieldType

// ValidationResult is the output of Validate.
type ValidationResult struct {
	Errors       []string
	Warnings     []string
	InferredType valuemodel.ResultType
}

// HasErrors reports whether the formula failed validation.
func (r ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// Dependency is one field referenced by a formula, tagged known/unknown and,
// if known, with its result type.
type Dependency struct {
	FieldID string
	Known   bool
	Type    valuemodel.ResultType
}

// fieldResultType maps a field's declared FieldType to the ResultType it
// contributes when referenced from a formula.
func fieldResultType(ft valuemodel.FieldType) valuemodel.ResultType {
	switch ft {
	case valuemodel.FieldTypeNumber:
		return valuemodel.ResultTypeNumber
	case valuemodel.FieldTypeText, valuemodel.FieldTypeTextarea,
		valuemodel.FieldTypeDropdown, valuemodel.FieldTypeRadio:
		return valuemodel.ResultTypeText
	case valuemodel.FieldTypeCheckbox:
		return valuemodel.ResultTypeBoolean
	case valuemodel.FieldTypeDate:
		return valuemodel.ResultTypeDate
	default:
		return valuemodel.ResultTypeUnknown
	}
}

// Dependencies extracts the set of referenced field ids from text, in
// deterministic first-occurrence order, each tagged known/unknown against
// fields.
func Dependencies(text string, fields FieldSet) ([]Dependency, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	var deps []Dependency
	seen := make(map[string]bool)
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case FieldRef:
			if seen[n.FieldID] {
				return
			}
			seen[n.FieldID] = true
			ft, known := fields[n.FieldID]
			dep := Dependency{FieldID: n.FieldID, Known: known}
			if known {
				dep.Type = fieldResultType(ft)
			} else {
				dep.Type = valuemodel.ResultTypeUnknown
			}
			deps = append(deps, dep)
		case UnaryExpr:
			walk(n.Operand)
		case BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case CallExpr:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(expr)
	return deps, nil
}

// Validate parses, resolves references, and type-checks text against
// fields, returning errors/warnings and the inferred result type. It never
// returns a Go error: every formula problem, a parse failure included,
// surfaces as an entry in ValidationResult.Errors. Whitespace-only text
// fails to parse here too; governance checks for it first and reports
// EMPTY instead.
func Validate(text string, fields FieldSet) ValidationResult {
	expr, err := Parse(text)
	if err != nil {
		return ValidationResult{Errors: []string{err.Error()}, InferredType: valuemodel.ResultTypeUnknown}
	}

	var result ValidationResult
	typ := inferType(expr, fields, &result)
	result.InferredType = typ
	return result
}

func inferType(e Expr, fields FieldSet, result *ValidationResult) valuemodel.ResultType {
	switch n := e.(type) {
	case NumberLit:
		return valuemodel.ResultTypeNumber
	case StringLit:
		return valuemodel.ResultTypeText
	case BoolLit:
		return valuemodel.ResultTypeBoolean

	case FieldRef:
		ft, known := fields[n.FieldID]
		if !known {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown field reference %q", n.FieldID))
			return valuemodel.ResultTypeUnknown
		}
		return fieldResultType(ft)

	case UnaryExpr:
		operandType := inferType(n.Operand, fields, result)
		switch n.Op {
		case "not":
			if operandType != valuemodel.ResultTypeBoolean && operandType != valuemodel.ResultTypeUnknown {
				result.Errors = append(result.Errors, fmt.Sprintf("operator 'not' requires BOOLEAN operand, got %s", operandType))
			}
			return valuemodel.ResultTypeBoolean
		case "-":
			if operandType != valuemodel.ResultTypeNumber && operandType != valuemodel.ResultTypeUnknown {
				result.Errors = append(result.Errors, fmt.Sprintf("unary '-' requires NUMBER operand, got %s", operandType))
			}
			return valuemodel.ResultTypeNumber
		}
		return valuemodel.ResultTypeUnknown

	case BinaryExpr:
		leftType := inferType(n.Left, fields, result)
		rightType := inferType(n.Right, fields, result)
		switch n.Op {
		case "+", "-", "*", "/":
			if !typeOKOrUnknown(leftType, valuemodel.ResultTypeNumber) || !typeOKOrUnknown(rightType, valuemodel.ResultTypeNumber) {
				result.Errors = append(result.Errors, fmt.Sprintf("arithmetic operator %q requires NUMBER operands, got %s and %s", n.Op, leftType, rightType))
			}
			return valuemodel.ResultTypeNumber
		case "==", "!=", "<", "<=", ">", ">=":
			if leftType != valuemodel.ResultTypeUnknown && rightType != valuemodel.ResultTypeUnknown && leftType != rightType {
				result.Warnings = append(result.Warnings, fmt.Sprintf("comparing %s to %s", leftType, rightType))
			}
			return valuemodel.ResultTypeBoolean
		case "and", "or":
			if !typeOKOrUnknown(leftType, valuemodel.ResultTypeBoolean) || !typeOKOrUnknown(rightType, valuemodel.ResultTypeBoolean) {
				result.Errors = append(result.Errors, fmt.Sprintf("logical operator %q requires BOOLEAN operands, got %s and %s", n.Op, leftType, rightType))
			}
			return valuemodel.ResultTypeBoolean
		}
		return valuemodel.ResultTypeUnknown

	case CallExpr:
		sig, ok := LookupFunction(n.Name)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown function %q", n.Name))
			for _, a := range n.Args {
				inferType(a, fields, result)
			}
			return valuemodel.ResultTypeUnknown
		}
		if len(n.Args) < sig.MinArgs || (sig.MaxArgs >= 0 && len(n.Args) > sig.MaxArgs) {
			result.Errors = append(result.Errors, fmt.Sprintf("function %q called with %d argument(s)", n.Name, len(n.Args)))
		}
		for _, a := range n.Args {
			inferType(a, fields, result)
		}
		return sig.ReturnType

	default:
		return valuemodel.ResultTypeUnknown
	}
}

func typeOKOrUnknown(got, want valuemodel.ResultType) bool {
	return got == want || got == valuemodel.ResultTypeUnknown
}

// Cycle is one strongly-connected component (size > 1) or self-loop found
// by CycleAnalysis.
type Cycle struct {
	FieldIDs  []string
	IsSelfRef bool
}

// CycleResult is the output of CycleAnalysis.
type CycleResult struct {
	Cycles           []Cycle
	AllCycleFieldIDs []string
	HasCycles        bool
}

// CycleAnalysis finds strongly-connected components of size > 1, plus
// self-loops, in the directed graph `deps` (field_id -> referenced field
// ids). Deterministic: components and their member ids are sorted before
// return.
func CycleAnalysis(deps map[string][]string) CycleResult {
	// Tarjan's SCC algorithm.
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var sccs [][]string

	nodes := make([]string, 0, len(deps))
	for n := range deps {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		neighbors := append([]string(nil), deps[v]...)
		sort.Strings(neighbors)
		for _, w := range neighbors {
			if _, visited := indices[w]; !visited {
				if _, known := deps[w]; !known {
					// Unknown field: not part of the graph's node set, skip.
					continue
				}
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, component)
		}
	}

	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}

	var result CycleResult
	allSeen := make(map[string]bool)
	for _, comp := range sccs {
		sort.Strings(comp)
		isSelfRef := len(comp) == 1 && contains(deps[comp[0]], comp[0])
		if len(comp) > 1 || isSelfRef {
			result.Cycles = append(result.Cycles, Cycle{FieldIDs: comp, IsSelfRef: isSelfRef})
			for _, id := range comp {
				if !allSeen[id] {
					allSeen[id] = true
					result.AllCycleFieldIDs = append(result.AllCycleFieldIDs, id)
				}
			}
		}
	}
	sort.Strings(result.AllCycleFieldIDs)
	sort.Slice(result.Cycles, func(i, j int) bool {
		return result.Cycles[i].FieldIDs[0] < result.Cycles[j].FieldIDs[0]
	})
	result.HasCycles = len(result.Cycles) > 0
	return result
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
