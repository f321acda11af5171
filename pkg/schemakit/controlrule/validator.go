// Package controlrule wraps the formula analyzer/governance pipeline with
// the one extra rule control rules enforce: the inferred result type must
// be BOOLEAN. It also hosts the previewer (preview.go),
// which evaluates an ALLOWED rule against an in-memory field map for the
// designer UI.
package controlrule

import (
	"fmt"

	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/governance"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// Status is the closed set of control-rule validation outcomes.
type Status string

const (
	StatusAllowed Status = "ALLOWED"
	StatusBlocked Status = "BLOCKED"
	StatusCleared Status = "CLEARED"
)

// Result is the outcome of Validate.
type Result struct {
	Status      Status
	Governance  governance.Result
	BlockReason string
}

// IsAllowed reports whether Status is ALLOWED.
func (r Result) IsAllowed() bool { return r.Status == StatusAllowed }

// IsBlocked reports whether Status is BLOCKED.
func (r Result) IsBlocked() bool { return r.Status == StatusBlocked }

// Validate runs the shared formula pipeline against text, then requires
// BOOLEAN as the inferred type:
//
//	ALLOWED:  governance allowed AND inferred_type == BOOLEAN
//	BLOCKED:  governance INVALID OR inferred_type != BOOLEAN
//	CLEARED:  whitespace-only formula
func Validate(text string, fields formula.FieldSet) Result {
	gov := governance.Classify(text, fields, false)
	return classify(gov)
}

// ValidateWithCycle is Validate, but lets the caller supply a precomputed
// cycle membership flag for the owning field (cycle analysis
// is entity-scoped, so the use-case layer computes it once per mutation
// and threads it through as a single snapshot per use-case).
func ValidateWithCycle(text string, fields formula.FieldSet, inCycle bool) Result {
	gov := governance.Classify(text, fields, inCycle)
	return classify(gov)
}

func classify(gov governance.Result) Result {
	switch gov.Status {
	case governance.StatusEmpty:
		return Result{Status: StatusCleared, Governance: gov}
	case governance.StatusInvalid:
		return Result{
			Status:      StatusBlocked,
			Governance:  gov,
			BlockReason: fmt.Sprintf("formula is invalid: %v", gov.BlockingReasons()),
		}
	}

	if gov.InferredType != valuemodel.ResultTypeBoolean {
		return Result{
			Status:      StatusBlocked,
			Governance:  gov,
			BlockReason: fmt.Sprintf("control rule formula must resolve to BOOLEAN, got %s", gov.InferredType),
		}
	}

	return Result{Status: StatusAllowed, Governance: gov}
}
