// Package governance aggregates the formula analyzer's outputs into the
// single status that gates every downstream decision — binding,
// control-rule validation, and the view-model's diagnostics. It is a pure
// function of the analyzer's results: no repository, no
// file system, no clock.
package governance

import (
	"sort"
	"strings"

	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// Status is the closed set of governance classifications.
type Status string

const (
	StatusEmpty             Status = "EMPTY"
	StatusInvalid           Status = "INVALID"
	StatusValidWithWarnings Status = "VALID_WITH_WARNINGS"
	StatusValid             Status = "VALID"
)

// Result is the outcome of Classify.
type Result struct {
	Status       Status
	InferredType valuemodel.ResultType
	Errors       []string
	Warnings     []string
}

// IsAllowed reports whether the formula may be used at all:
// EMPTY, VALID, or VALID_WITH_WARNINGS.
func (r Result) IsAllowed() bool {
	return r.Status == StatusEmpty || r.Status == StatusValid || r.Status == StatusValidWithWarnings
}

// IsBlocked reports whether the formula is rejected outright.
func (r Result) IsBlocked() bool {
	return r.Status == StatusInvalid
}

// BlockingReasons returns a stable-ordered list of reasons the formula is
// INVALID. Empty for any other status.
func (r Result) BlockingReasons() []string {
	if r.Status != StatusInvalid {
		return nil
	}
	out := append([]string(nil), r.Errors...)
	sort.Strings(out)
	return out
}

// WarningReasons returns a stable-ordered list of non-blocking warnings.
func (r Result) WarningReasons() []string {
	out := append([]string(nil), r.Warnings...)
	sort.Strings(out)
	return out
}

// Classify runs the formula analyzer against text and fields and folds the
// result, plus whether the owning field participates in a dependency
// cycle, into a single governance Status. inCycle is computed by the caller via
// formula.CycleAnalysis over the entity's full dependency graph — cycle
// detection itself is entity-scoped and out of Classify's purview.
func Classify(text string, fields formula.FieldSet, inCycle bool) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusEmpty, InferredType: valuemodel.ResultTypeUnknown}
	}

	validation := formula.Validate(text, fields)

	if inCycle {
		errs := append([]string(nil), validation.Errors...)
		errs = append(errs, "formula participates in a dependency cycle")
		return Result{
			Status:       StatusInvalid,
			InferredType: validation.InferredType,
			Errors:       errs,
			Warnings:     validation.Warnings,
		}
	}

	if validation.HasErrors() {
		return Result{
			Status:       StatusInvalid,
			InferredType: validation.InferredType,
			Errors:       validation.Errors,
			Warnings:     validation.Warnings,
		}
	}

	if len(validation.Warnings) > 0 {
		return Result{
			Status:       StatusValidWithWarnings,
			InferredType: validation.InferredType,
			Warnings:     validation.Warnings,
		}
	}

	return Result{Status: StatusValid, InferredType: validation.InferredType}
}
