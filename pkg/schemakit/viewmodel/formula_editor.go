package viewmodel

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/binding"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/governance"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// FormulaEditor is the observable facade for a
// CALCULATED field's formula editor. Every exported method re-reads one
// of its published properties; its state changes only through
// SetFormulaText, SetSchemaContext, SetBindingTarget and
// SetCycleMembership, and each of them re-runs the analyzer pipeline
// synchronously.
type FormulaEditor struct {
	*notifier

	formulaText string
	fields      formula.FieldSet
	inCycle     bool
	hasTarget   bool
	target      valuemodel.BindingTarget

	validation formula.ValidationResult
	deps       []formula.Dependency
	gov        governance.Result
	bindStatus binding.Status
}

// NewFormulaEditor constructs an editor bound to fields, the schema
// context it validates formula text against.
func NewFormulaEditor(fields formula.FieldSet) *FormulaEditor {
	e := &FormulaEditor{notifier: newNotifier(), fields: fields}
	e.recompute()
	return e
}

// FormulaText returns the current formula source.
func (e *FormulaEditor) FormulaText() string { return e.formulaText }

// SetFormulaText replaces the formula source and re-runs the analyzer
// pipeline, notifying every property that may have changed.
func (e *FormulaEditor) SetFormulaText(text string) {
	e.formulaText = text
	e.recompute()
}

// SetSchemaContext replaces the field set the editor validates against
// (e.g. after a field was added elsewhere in the entity) and re-runs
// validation for the current formula text.
func (e *FormulaEditor) SetSchemaContext(fields formula.FieldSet) {
	e.fields = fields
	e.recompute()
}

// SetBindingTarget records the target this formula would bind to, used
// by BindingStatus/CanSaveBinding. hasTarget false clears it (NO_TARGET).
func (e *FormulaEditor) SetBindingTarget(hasTarget bool, target valuemodel.BindingTarget) {
	e.hasTarget = hasTarget
	e.target = target
	e.recompute()
}

// SetCycleMembership records whether the owning field participates in a
// dependency cycle, computed by the caller over the full
// entity graph, and re-runs validation.
func (e *FormulaEditor) SetCycleMembership(inCycle bool) {
	e.inCycle = inCycle
	e.recompute()
}

func (e *FormulaEditor) recompute() {
	e.validation = formula.Validate(e.formulaText, e.fields)
	if deps, err := formula.Dependencies(e.formulaText, e.fields); err == nil {
		e.deps = deps
	} else {
		e.deps = nil
	}
	e.gov = governance.Classify(e.formulaText, e.fields, e.inCycle)
	e.bindStatus = binding.Decide(e.hasTarget, e.target, e.gov)

	for _, p := range []string{
		"formula_text", "inferred_type", "is_valid", "errors", "warnings",
		"dependencies", "unknown_fields", "cycle_analysis", "governance_status",
		"is_formula_allowed", "is_formula_blocked", "binding_target",
		"binding_status", "can_save_binding",
		"all_diagnostic_errors", "all_diagnostic_warnings", "all_diagnostic_info",
		"status_message",
	} {
		e.notify(p)
	}
}

// InferredType is the formula's inferred result type.
func (e *FormulaEditor) InferredType() valuemodel.ResultType { return e.validation.InferredType }

// IsValid reports whether the formula passed validation.
func (e *FormulaEditor) IsValid() bool { return !e.validation.HasErrors() }

// Errors returns the formula's validation errors.
func (e *FormulaEditor) Errors() []string { return e.validation.Errors }

// Warnings returns the formula's validation warnings.
func (e *FormulaEditor) Warnings() []string { return e.validation.Warnings }

// Dependencies returns every field the formula references.
func (e *FormulaEditor) Dependencies() []formula.Dependency { return e.deps }

// UnknownFields returns the subset of Dependencies not present in the
// current schema context.
func (e *FormulaEditor) UnknownFields() []string {
	var out []string
	for _, d := range e.deps {
		if !d.Known {
			out = append(out, d.FieldID)
		}
	}
	return out
}

// CycleAnalysis reports whether the owning field participates in a
// dependency cycle, as last set via SetCycleMembership.
func (e *FormulaEditor) CycleAnalysis() bool { return e.inCycle }

// GovernanceStatus is the formula's governance classification.
func (e *FormulaEditor) GovernanceStatus() governance.Status { return e.gov.Status }

// IsFormulaAllowed reports whether the formula may be used at all.
func (e *FormulaEditor) IsFormulaAllowed() bool { return e.gov.IsAllowed() }

// IsFormulaBlocked reports whether the formula is rejected outright.
func (e *FormulaEditor) IsFormulaBlocked() bool { return e.gov.IsBlocked() }

// BindingTarget is the target this formula would bind to, if any.
func (e *FormulaEditor) BindingTarget() (valuemodel.BindingTarget, bool) {
	return e.target, e.hasTarget
}

// BindingStatus is the outcome of binding this formula to BindingTarget.
func (e *FormulaEditor) BindingStatus() binding.Status { return e.bindStatus }

// CanSaveBinding reports whether BindingStatus allows a save.
func (e *FormulaEditor) CanSaveBinding() bool { return e.bindStatus == binding.StatusAllowed }

// AllDiagnosticErrors aggregates every blocking diagnostic a UI would
// surface as an error: validation errors plus, if blocked, the
// governance reasons.
func (e *FormulaEditor) AllDiagnosticErrors() []string {
	out := append([]string{}, e.validation.Errors...)
	if e.gov.IsBlocked() {
		out = append(out, e.gov.BlockingReasons()...)
	}
	return out
}

// AllDiagnosticWarnings aggregates every non-blocking diagnostic.
func (e *FormulaEditor) AllDiagnosticWarnings() []string {
	out := append([]string{}, e.validation.Warnings...)
	out = append(out, e.gov.WarningReasons()...)
	return out
}

// AllDiagnosticInfo aggregates informational diagnostics — currently just
// the unknown-field list, surfaced as info rather than error since an
// unknown field degrades type inference but never blocks by itself.
func (e *FormulaEditor) AllDiagnosticInfo() []string {
	return e.UnknownFields()
}

// StatusMessage is a single human-readable summary of the editor's
// current state, for a status bar.
func (e *FormulaEditor) StatusMessage() string {
	switch {
	case e.formulaText == "":
		return "no formula"
	case e.gov.IsBlocked():
		return "formula is blocked"
	case len(e.validation.Warnings) > 0:
		return "formula is valid with warnings"
	default:
		return "formula is valid"
	}
}

// Dispose clears every subscription.
func (e *FormulaEditor) Dispose() { e.notifier.dispose() }
