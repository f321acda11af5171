package viewmodel_test

import (
	"testing"

	"github.com/niiniyare/schemaforge/pkg/schemakit/binding"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/governance"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/niiniyare/schemaforge/pkg/schemakit/viewmodel"
	"github.com/stretchr/testify/require"
)

var editorFields = formula.FieldSet{
	"amount": valuemodel.FieldTypeNumber,
	"label":  valuemodel.FieldTypeText,
}

func TestFormulaEditorRecomputesOnSetFormulaText(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	require.Equal(t, governance.StatusEmpty, e.GovernanceStatus())

	e.SetFormulaText("amount > 0")
	require.True(t, e.IsValid())
	require.Equal(t, valuemodel.ResultTypeBoolean, e.InferredType())
	require.Equal(t, governance.StatusValid, e.GovernanceStatus())
	require.True(t, e.IsFormulaAllowed())
}

func TestFormulaEditorTracksUnknownFields(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	e.SetFormulaText("amount + ghost")
	require.Contains(t, e.UnknownFields(), "ghost")
}

func TestFormulaEditorCycleMembershipForcesInvalidGovernance(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	e.SetFormulaText("amount > 0")
	require.True(t, e.IsFormulaAllowed())

	e.SetCycleMembership(true)
	require.True(t, e.IsFormulaBlocked())
	require.Equal(t, governance.StatusInvalid, e.GovernanceStatus())
}

func TestFormulaEditorBindingStatusTracksTarget(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	e.SetFormulaText("amount > 0")

	e.SetBindingTarget(true, valuemodel.BindingTargetCalculatedField)
	require.Equal(t, binding.StatusAllowed, e.BindingStatus())
	require.True(t, e.CanSaveBinding())

	e.SetBindingTarget(true, valuemodel.BindingTargetValidationRule)
	require.Equal(t, binding.StatusBlockedUnsupportedTarget, e.BindingStatus())
	require.False(t, e.CanSaveBinding())
}

func TestFormulaEditorStatusMessageReflectsState(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	require.Equal(t, "no formula", e.StatusMessage())

	e.SetFormulaText("amount == label")
	require.Equal(t, "formula is valid with warnings", e.StatusMessage())
}

func TestFormulaEditorNotifiesSubscribersOnChange(t *testing.T) {
	e := viewmodel.NewFormulaEditor(editorFields)
	calls := 0
	unsubscribe := e.Subscribe("is_valid", func() { calls++ })

	e.SetFormulaText("amount > 0")
	require.Equal(t, 1, calls)

	unsubscribe()
	e.SetFormulaText("amount > 1")
	require.Equal(t, 1, calls)
}

func TestControlRuleEditorRequiresBooleanFormula(t *testing.T) {
	e := viewmodel.NewControlRuleEditor(valuemodel.ControlRuleVisibility, "label", editorFields)
	e.SetFormulaText("amount + 1")
	require.False(t, e.IsBooleanFormula())
	require.True(t, e.IsRuleBlocked())
	require.NotEmpty(t, e.BlockingReason())
}

func TestControlRuleEditorAllowsBooleanFormula(t *testing.T) {
	e := viewmodel.NewControlRuleEditor(valuemodel.ControlRuleVisibility, "label", editorFields)
	e.SetFormulaText("amount > 0")
	require.True(t, e.IsBooleanFormula())
	require.True(t, e.IsRuleAllowed())
}

func TestControlRuleEditorClearRuleReducesToCleared(t *testing.T) {
	e := viewmodel.NewControlRuleEditor(valuemodel.ControlRuleVisibility, "label", editorFields)
	e.SetFormulaText("amount > 0")
	require.True(t, e.IsRuleAllowed())

	e.ClearRule()
	require.Equal(t, "", e.FormulaText())
	require.Equal(t, "rule cleared", e.StatusMessage())
}

func TestDependencyLabelsResolveThroughTranslator(t *testing.T) {
	deps := []formula.Dependency{
		{FieldID: "amount", Known: true},
		{FieldID: "ghost", Known: false},
	}
	labelKeys := map[string]ids.TranslationKey{"amount": "amount.label"}
	translate := viewmodel.Translator(func(key ids.TranslationKey) string { return "Label(" + string(key) + ")" })

	labels := viewmodel.DependencyLabels(deps, labelKeys, translate)
	require.Equal(t, []string{"Label(amount.label)", "ghost"}, labels)

	raw := viewmodel.DependencyLabels(deps, labelKeys, nil)
	require.Equal(t, []string{"amount", "ghost"}, raw)
}

func TestControlRuleEditorCycleMembershipBlocks(t *testing.T) {
	e := viewmodel.NewControlRuleEditor(valuemodel.ControlRuleVisibility, "label", editorFields)
	e.SetFormulaText("amount > 0")
	require.True(t, e.IsRuleAllowed())

	e.SetCycleMembership(true)
	require.True(t, e.IsRuleBlocked())
}
