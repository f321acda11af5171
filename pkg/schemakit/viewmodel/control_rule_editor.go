package viewmodel

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/controlrule"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// ControlRuleEditor is the observable facade for
// a control rule: the same validation surface as FormulaEditor, plus the
// rule-specific properties (rule_type, target_field_id, is_boolean_formula)
// and a clear_rule() command that reduces to CLEARED without persisting.
type ControlRuleEditor struct {
	*notifier

	ruleType      valuemodel.ControlRuleType
	targetFieldID ids.FieldId
	formulaText   string
	fields        formula.FieldSet
	inCycle       bool

	result controlrule.Result
}

// NewControlRuleEditor constructs an editor for a rule of the given type,
// validated against fields.
func NewControlRuleEditor(ruleType valuemodel.ControlRuleType, targetFieldID ids.FieldId, fields formula.FieldSet) *ControlRuleEditor {
	e := &ControlRuleEditor{notifier: newNotifier(), ruleType: ruleType, targetFieldID: targetFieldID, fields: fields}
	e.recompute()
	return e
}

// RuleType is the control rule kind this editor validates.
func (e *ControlRuleEditor) RuleType() valuemodel.ControlRuleType { return e.ruleType }

// TargetFieldID is the field this rule controls.
func (e *ControlRuleEditor) TargetFieldID() ids.FieldId { return e.targetFieldID }

// SetTargetFieldID changes the controlled field.
func (e *ControlRuleEditor) SetTargetFieldID(fieldID ids.FieldId) {
	e.targetFieldID = fieldID
	e.recompute()
}

// FormulaText returns the rule's current formula source.
func (e *ControlRuleEditor) FormulaText() string { return e.formulaText }

// SetFormulaText replaces the formula source and re-runs validation.
func (e *ControlRuleEditor) SetFormulaText(text string) {
	e.formulaText = text
	e.recompute()
}

// SetSchemaContext replaces the field set validation runs against.
func (e *ControlRuleEditor) SetSchemaContext(fields formula.FieldSet) {
	e.fields = fields
	e.recompute()
}

// SetCycleMembership records whether the rule's owning field participates
// in a dependency cycle.
func (e *ControlRuleEditor) SetCycleMembership(inCycle bool) {
	e.inCycle = inCycle
	e.recompute()
}

// ClearRule resets the formula text to empty, which always reduces to
// CLEARED without ever being persisted.
func (e *ControlRuleEditor) ClearRule() {
	e.formulaText = ""
	e.recompute()
}

func (e *ControlRuleEditor) recompute() {
	e.result = controlrule.ValidateWithCycle(e.formulaText, e.fields, e.inCycle)

	for _, p := range []string{
		"rule_type", "target_field_id", "formula_text", "inferred_type",
		"is_valid", "errors", "warnings", "dependencies", "unknown_fields",
		"cycle_analysis", "governance_status", "is_rule_allowed",
		"is_rule_blocked", "is_boolean_formula", "blocking_reason",
		"all_diagnostic_errors", "all_diagnostic_warnings", "all_diagnostic_info",
		"status_message",
	} {
		e.notify(p)
	}
}

// InferredType is the rule formula's inferred result type.
func (e *ControlRuleEditor) InferredType() valuemodel.ResultType {
	return e.result.Governance.InferredType
}

// IsValid reports whether the underlying formula passed validation.
func (e *ControlRuleEditor) IsValid() bool { return !e.result.Governance.IsBlocked() }

// Errors returns the rule formula's validation errors.
func (e *ControlRuleEditor) Errors() []string { return e.result.Governance.Errors }

// Warnings returns the rule formula's validation warnings.
func (e *ControlRuleEditor) Warnings() []string { return e.result.Governance.Warnings }

// Dependencies returns every field the rule formula references.
func (e *ControlRuleEditor) Dependencies() ([]formula.Dependency, error) {
	return formula.Dependencies(e.formulaText, e.fields)
}

// UnknownFields returns the subset of Dependencies not present in the
// current schema context.
func (e *ControlRuleEditor) UnknownFields() []string {
	deps, err := e.Dependencies()
	if err != nil {
		return nil
	}
	var out []string
	for _, d := range deps {
		if !d.Known {
			out = append(out, d.FieldID)
		}
	}
	return out
}

// CycleAnalysis reports whether the rule's owning field participates in a
// dependency cycle, as last set via SetCycleMembership.
func (e *ControlRuleEditor) CycleAnalysis() bool { return e.inCycle }

// GovernanceStatus is the rule formula's governance classification.
func (e *ControlRuleEditor) GovernanceStatus() string { return string(e.result.Governance.Status) }

// IsRuleAllowed reports whether the control rule may be saved.
func (e *ControlRuleEditor) IsRuleAllowed() bool { return e.result.IsAllowed() }

// IsRuleBlocked reports whether the control rule is rejected outright.
func (e *ControlRuleEditor) IsRuleBlocked() bool { return e.result.IsBlocked() }

// IsBooleanFormula reports whether the formula resolves to BOOLEAN, the
// one extra requirement control rules enforce over a plain formula.
func (e *ControlRuleEditor) IsBooleanFormula() bool {
	return e.result.Governance.InferredType == valuemodel.ResultTypeBoolean
}

// BlockingReason is the human-readable reason IsRuleBlocked is true, or
// empty otherwise.
func (e *ControlRuleEditor) BlockingReason() string { return e.result.BlockReason }

// AllDiagnosticErrors aggregates every blocking diagnostic.
func (e *ControlRuleEditor) AllDiagnosticErrors() []string {
	out := append([]string{}, e.result.Governance.Errors...)
	if e.result.IsBlocked() && e.result.BlockReason != "" {
		out = append(out, e.result.BlockReason)
	}
	return out
}

// AllDiagnosticWarnings aggregates every non-blocking diagnostic.
func (e *ControlRuleEditor) AllDiagnosticWarnings() []string {
	return append([]string{}, e.result.Governance.Warnings...)
}

// AllDiagnosticInfo aggregates informational diagnostics.
func (e *ControlRuleEditor) AllDiagnosticInfo() []string { return e.UnknownFields() }

// StatusMessage is a single human-readable summary for a status bar.
func (e *ControlRuleEditor) StatusMessage() string {
	switch {
	case e.formulaText == "":
		return "rule cleared"
	case e.result.IsBlocked():
		return e.result.BlockReason
	default:
		return "rule is allowed"
	}
}

// Dispose clears every subscription.
func (e *ControlRuleEditor) Dispose() { e.notifier.dispose() }
