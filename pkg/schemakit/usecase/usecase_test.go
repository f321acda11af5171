package usecase_test

import (
	"context"
	"testing"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/metrics"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/controlrule"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository/memstore"
	"github.com/niiniyare/schemaforge/pkg/schemakit/usecase"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/niiniyare/schemaforge/pkg/tracing"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *usecase.Service {
	t.Helper()
	store := memstore.New()
	m, err := metrics.NewMetricsService(metrics.MetricsConfig{Enabled: false})
	require.NoError(t, err)
	return usecase.New(store, store.Relationships(), nil, *m)
}

func TestCreateEntityAndAddField(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	require.Equal(t, "invoice", id)

	fieldID, err := svc.AddField(ctx, "invoice", usecase.AddFieldInput{
		ID: "amount", Type: string(valuemodel.FieldTypeNumber), LabelKey: "amount.label",
	})
	require.NoError(t, err)
	require.Equal(t, "amount", fieldID)
}

func TestCreateEntityRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.ErrorIs(t, err, errors.ErrDuplicateID)
}

func TestAddFieldLookupRejectsDanglingTarget(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)

	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{
		ID: "customer", Type: string(valuemodel.FieldTypeLookup), LabelKey: "customer.label",
		LookupEntityID: "missing_entity",
	})
	require.ErrorIs(t, err, errors.ErrDanglingReference)
}

func seedInvoiceWithFlag(t *testing.T, svc *usecase.Service, ctx context.Context) {
	t.Helper()
	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{ID: "amount", Type: string(valuemodel.FieldTypeNumber), LabelKey: "amount.label"})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{ID: "flag", Type: string(valuemodel.FieldTypeCheckbox), LabelKey: "flag.label"})
	require.NoError(t, err)
}

// TestControlRuleBooleanFormulaIsAllowed covers a boolean control rule
// being accepted and installed on its target field.
func TestControlRuleBooleanFormulaIsAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	seedInvoiceWithFlag(t, svc, ctx)

	result, err := svc.AddControlRule(ctx, "invoice", "amount", aggregate.ControlRule{
		RuleType: valuemodel.ControlRuleVisibility, TargetFieldID: "flag", FormulaText: "amount > 0",
	})
	require.NoError(t, err)
	require.Equal(t, controlrule.StatusAllowed, result.Status)

	rules, err := svc.ListControlRules(ctx, "invoice", "amount")
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

// TestControlRuleNonBooleanFormulaIsBlocked covers a non-boolean formula
// being rejected and never persisted.
func TestControlRuleNonBooleanFormulaIsBlocked(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	seedInvoiceWithFlag(t, svc, ctx)

	_, err := svc.AddControlRule(ctx, "invoice", "amount", aggregate.ControlRule{
		RuleType: valuemodel.ControlRuleVisibility, TargetFieldID: "flag", FormulaText: "amount + 1",
	})
	require.ErrorIs(t, err, errors.ErrControlRuleInvalid)

	rules, err := svc.ListControlRules(ctx, "invoice", "amount")
	require.NoError(t, err)
	require.Empty(t, rules)
}

// TestControlRuleOnCyclicCalculatedFieldIsBlocked covers the cycle
// path: a field whose calculated formula participates in a dependency
// cycle can never host an ALLOWED control rule, regardless of the rule's
// own formula text.
func TestControlRuleOnCyclicCalculatedFieldIsBlocked(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "calc_entity", NameKey: "calc_entity.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "calc_entity", usecase.AddFieldInput{ID: "a", Type: string(valuemodel.FieldTypeCalculated), LabelKey: "a.label", Formula: "{{b}} + 1"})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "calc_entity", usecase.AddFieldInput{ID: "b", Type: string(valuemodel.FieldTypeCalculated), LabelKey: "b.label", Formula: "{{a}} + 1"})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "calc_entity", usecase.AddFieldInput{ID: "flag", Type: string(valuemodel.FieldTypeCheckbox), LabelKey: "flag.label"})
	require.NoError(t, err)

	_, err = svc.AddControlRule(ctx, "calc_entity", "a", aggregate.ControlRule{
		RuleType: valuemodel.ControlRuleVisibility, TargetFieldID: "flag", FormulaText: "true",
	})
	require.ErrorIs(t, err, errors.ErrControlRuleInvalid)
}

// TestAddConstraintRejectsDuplicateKind covers kind uniqueness enforced through
// the service layer rather than the constraint package directly.
func TestAddConstraintRejectsDuplicateKind(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{ID: "amount", Type: string(valuemodel.FieldTypeNumber), LabelKey: "amount.label"})
	require.NoError(t, err)

	require.NoError(t, svc.AddConstraint(ctx, "invoice", "amount", constraint.NewMinValue(0, valuemodel.SeverityError)))
	err = svc.AddConstraint(ctx, "invoice", "amount", constraint.NewMinValue(5, valuemodel.SeverityError))
	require.ErrorIs(t, err, errors.ErrDuplicateConstraintKind)
}

// TestDeleteFieldBlockedByFormulaReference covers deletion safety: a field
// referenced by another field's formula cannot be deleted.
func TestDeleteFieldBlockedByFormulaReference(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{ID: "price", Type: string(valuemodel.FieldTypeNumber), LabelKey: "price.label"})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{
		ID: "total", Type: string(valuemodel.FieldTypeCalculated), LabelKey: "total.label", Formula: "{{price}} * 2",
	})
	require.NoError(t, err)

	err = svc.DeleteField(ctx, "invoice", "price")
	require.Error(t, err)
}

func TestDeleteEntityBlockedByLookupReference(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "customer", NameKey: "customer.name", IsRootEntity: false})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "customer", usecase.AddFieldInput{ID: "name", Type: string(valuemodel.FieldTypeText), LabelKey: "name.label"})
	require.NoError(t, err)

	_, err = svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{
		ID: "customer_ref", Type: string(valuemodel.FieldTypeLookup), LabelKey: "customer_ref.label",
		LookupEntityID: "customer",
	})
	require.NoError(t, err)

	err = svc.DeleteEntity(ctx, "customer")
	require.Error(t, err)
}

func TestExportSchemaTracesWithoutAlteringResult(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	svc.Tracer = tracing.NewNoOpService()

	_, err := svc.CreateEntity(ctx, usecase.CreateEntityInput{ID: "invoice", NameKey: "invoice.name", IsRootEntity: true})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, "invoice", usecase.AddFieldInput{ID: "amount", Type: string(valuemodel.FieldTypeNumber), LabelKey: "amount.label"})
	require.NoError(t, err)

	path := t.TempDir() + "/schema.json"
	result, err := svc.ExportSchema(ctx, path, "invoice-schema", "1.0.0")
	require.NoError(t, err)
	require.NotNil(t, result)

	imported, err := svc.ImportSchema(ctx, path)
	require.NoError(t, err)
	require.Len(t, imported.Schema.Entities(), 1)
}

func TestPreviewControlRuleEvaluatesWhenAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	seedInvoiceWithFlag(t, svc, ctx)

	result, err := svc.PreviewControlRule(ctx, "invoice", "amount",
		aggregate.ControlRule{RuleType: valuemodel.ControlRuleVisibility, TargetFieldID: "flag", FormulaText: "amount > 10"},
		map[string]any{"amount": 20.0},
	)
	require.NoError(t, err)
	require.True(t, result.Evaluated)
	require.True(t, result.Value)
}
