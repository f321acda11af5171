package controlrule_test

import (
	"testing"

	"github.com/niiniyare/schemaforge/pkg/schemakit/controlrule"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/stretchr/testify/require"
)

var fields = formula.FieldSet{
	"age":    valuemodel.FieldTypeNumber,
	"active": valuemodel.FieldTypeCheckbox,
}

func TestValidateBooleanFormulaIsAllowed(t *testing.T) {
	r := controlrule.Validate("age >= 18", fields)
	require.Equal(t, controlrule.StatusAllowed, r.Status)
	require.True(t, r.IsAllowed())
}

func TestValidateNonBooleanFormulaIsBlocked(t *testing.T) {
	r := controlrule.Validate("age + 1", fields)
	require.Equal(t, controlrule.StatusBlocked, r.Status)
	require.Contains(t, r.BlockReason, "BOOLEAN")
}

func TestValidateEmptyFormulaIsCleared(t *testing.T) {
	r := controlrule.Validate("", fields)
	require.Equal(t, controlrule.StatusCleared, r.Status)
}

func TestValidateInvalidFormulaIsBlocked(t *testing.T) {
	r := controlrule.Validate("age >= unknown_field", fields)
	require.Equal(t, controlrule.StatusBlocked, r.Status)
	require.Contains(t, r.BlockReason, "invalid")
}

func TestValidateWithCycleForcesBlocked(t *testing.T) {
	r := controlrule.ValidateWithCycle("age >= 18", fields, true)
	require.Equal(t, controlrule.StatusBlocked, r.Status)
}

func TestPreviewEvaluatesAllowedRule(t *testing.T) {
	result, err := controlrule.Preview("age >= 18", fields, map[string]any{"age": 21.0})
	require.NoError(t, err)
	require.True(t, result.Evaluated)
	require.True(t, result.Value)
}

func TestPreviewSkipsClearedRule(t *testing.T) {
	result, err := controlrule.Preview("", fields, map[string]any{})
	require.NoError(t, err)
	require.False(t, result.Evaluated)
	require.Equal(t, controlrule.StatusCleared, result.Validation.Status)
}

func TestPreviewSkipsBlockedRule(t *testing.T) {
	result, err := controlrule.Preview("age + 1", fields, map[string]any{"age": 5.0})
	require.NoError(t, err)
	require.False(t, result.Evaluated)
	require.Equal(t, controlrule.StatusBlocked, result.Validation.Status)
}
