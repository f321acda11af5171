package aggregate_test

import (
	"testing"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/stretchr/testify/require"
)

func textField(id string) *aggregate.Field {
	return &aggregate.Field{
		ID:       ids.FieldId(id),
		Type:     valuemodel.FieldTypeText,
		LabelKey: ids.TranslationKey(id + ".label"),
	}
}

func TestAddFieldRejectsDuplicateID(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	require.NoError(t, e.AddField(textField("amount"), view))
	err := e.AddField(textField("amount"), view)
	require.ErrorIs(t, err, errors.ErrDuplicateID)
}

func TestAddFieldCalculatedRejectsRequired(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{
		ID:       "total",
		Type:     valuemodel.FieldTypeCalculated,
		LabelKey: "total.label",
		Required: true,
		Formula:  "price * quantity",
	}
	err := e.AddField(f, view)
	require.Error(t, err)
}

func TestAddFieldCalculatedRejectsConstraints(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{
		ID:          "total",
		Type:        valuemodel.FieldTypeCalculated,
		LabelKey:    "total.label",
		Formula:     "price * quantity",
		Constraints: []constraint.Constraint{constraint.NewRequired(valuemodel.SeverityError)},
	}
	err := e.AddField(f, view)
	require.ErrorIs(t, err, errors.ErrConstraintOnCalculated)
}

func TestAddFieldLookupRequiresTarget(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{ID: "customer", Type: valuemodel.FieldTypeLookup, LabelKey: "customer.label"}
	err := e.AddField(f, view)
	require.Error(t, err)
}

func TestAddFieldLookupRejectsSelfReference(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{
		ID: "parent", Type: valuemodel.FieldTypeLookup, LabelKey: "parent.label",
		LookupEntityID: "invoice",
	}
	err := e.AddField(f, view)
	require.ErrorIs(t, err, errors.ErrSelfReferentialLookup)
}

func TestAddFieldLookupRejectsDanglingTarget(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{
		ID: "customer", Type: valuemodel.FieldTypeLookup, LabelKey: "customer.label",
		LookupEntityID: "customer_entity",
	}
	err := e.AddField(f, view)
	require.ErrorIs(t, err, errors.ErrDanglingReference)
}

func TestAddFieldLookupAcceptsValidTargetAndDisplayField(t *testing.T) {
	customer := aggregate.NewEntity("customer_entity", "customer.name", false)
	view := aggregate.NewSchemaView([]*aggregate.Entity{customer})
	require.NoError(t, customer.AddField(textField("name"), view))

	invoice := aggregate.NewEntity("invoice", "invoice.name", true)
	view = aggregate.NewSchemaView([]*aggregate.Entity{customer, invoice})

	f := &aggregate.Field{
		ID: "customer", Type: valuemodel.FieldTypeLookup, LabelKey: "customer.label",
		LookupEntityID: "customer_entity", LookupDisplayField: "name",
	}
	require.NoError(t, invoice.AddField(f, view))
}

func TestAddFieldTableRequiresExistingChildEntity(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{ID: "lines", Type: valuemodel.FieldTypeTable, LabelKey: "lines.label"}
	err := e.AddField(f, view)
	require.ErrorIs(t, err, errors.ErrDanglingReference)
}

func TestAddFieldChoiceRejectsDuplicateOptionValues(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})

	f := &aggregate.Field{
		ID: "status", Type: valuemodel.FieldTypeDropdown, LabelKey: "status.label",
		Options: []aggregate.Option{{Value: "open"}, {Value: "open"}},
	}
	err := e.AddField(f, view)
	require.ErrorIs(t, err, errors.ErrDuplicateOptionValue)
}

func TestUpdateFieldRejectsIDChange(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})
	require.NoError(t, e.AddField(textField("amount"), view))

	renamed := textField("renamed")
	err := e.UpdateField("amount", renamed, view)
	require.Error(t, err)
}

func TestUpdateFieldRejectsTypeChange(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})
	require.NoError(t, e.AddField(textField("amount"), view))

	retyped := &aggregate.Field{ID: "amount", Type: valuemodel.FieldTypeNumber, LabelKey: "amount.label"}
	err := e.UpdateField("amount", retyped, view)
	require.ErrorIs(t, err, errors.ErrFieldTypeImmutable)
}

func TestUpdateFieldAcceptsCompatibleReplacement(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})
	require.NoError(t, e.AddField(textField("amount"), view))

	updated := textField("amount")
	updated.HelpTextKey = "amount.help"
	require.NoError(t, e.UpdateField("amount", updated, view))

	got, ok := e.Field("amount")
	require.True(t, ok)
	require.Equal(t, ids.TranslationKey("amount.help"), got.HelpTextKey)
}

func TestDeleteFieldRemovesFromOrderAndMap(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{e})
	require.NoError(t, e.AddField(textField("amount"), view))
	require.NoError(t, e.AddField(textField("status"), view))

	require.NoError(t, e.DeleteField("amount"))
	require.False(t, e.HasField("amount"))
	require.Equal(t, 1, e.FieldCount())
	require.Equal(t, ids.FieldId("status"), e.Fields()[0].ID)
}

func TestDeleteFieldUnknownFails(t *testing.T) {
	e := aggregate.NewEntity("invoice", "invoice.name", true)
	err := e.DeleteField("ghost")
	require.Error(t, err)
}

func TestFieldOptionLifecycle(t *testing.T) {
	f := textField("status")
	require.NoError(t, f.AddOption(aggregate.Option{Value: "open", LabelKey: "open.label"}))
	require.NoError(t, f.AddOption(aggregate.Option{Value: "closed", LabelKey: "closed.label"}))

	err := f.AddOption(aggregate.Option{Value: "open"})
	require.ErrorIs(t, err, errors.ErrDuplicateOptionValue)

	require.NoError(t, f.UpdateOptionLabel("open", "open.relabeled"))
	require.Equal(t, ids.TranslationKey("open.relabeled"), f.Options[0].LabelKey)

	require.NoError(t, f.ReorderOption([]string{"closed", "open"}))
	require.Equal(t, "closed", f.Options[0].Value)

	err = f.ReorderOption([]string{"closed", "open", "missing"})
	require.ErrorIs(t, err, errors.ErrInvalidPermutation)

	require.NoError(t, f.DeleteOption("closed"))
	require.Len(t, f.Options, 1)
}

func TestFieldControlRuleAndOutputMappingAreKeyedSingletons(t *testing.T) {
	f := textField("amount")

	f.SetControlRule(aggregate.ControlRule{RuleType: valuemodel.ControlRuleVisibility, FormulaText: "amount > 0"})
	f.SetControlRule(aggregate.ControlRule{RuleType: valuemodel.ControlRuleVisibility, FormulaText: "amount > 100"})
	require.Len(t, f.ControlRules, 1)
	require.Equal(t, "amount > 100", f.ControlRules[valuemodel.ControlRuleVisibility].FormulaText)

	f.DeleteControlRule(valuemodel.ControlRuleVisibility)
	require.Empty(t, f.ControlRules)

	f.SetOutputMapping(aggregate.OutputMapping{Target: valuemodel.OutputTargetNumber, FormulaText: "amount * 2"})
	require.Len(t, f.OutputMappings, 1)
	f.DeleteOutputMapping(valuemodel.OutputTargetNumber)
	require.Empty(t, f.OutputMappings)
}

func TestSchemaAddEntityRejectsDuplicateID(t *testing.T) {
	s := aggregate.NewSchema("schema-1")
	require.NoError(t, s.AddEntity(aggregate.NewEntity("invoice", "invoice.name", true)))
	err := s.AddEntity(aggregate.NewEntity("invoice", "invoice.name", true))
	require.ErrorIs(t, err, errors.ErrDuplicateID)
}

func TestSchemaDeleteEntityUnknownFails(t *testing.T) {
	s := aggregate.NewSchema("schema-1")
	err := s.DeleteEntity("ghost")
	require.ErrorIs(t, err, errors.ErrEntityNotFound)
}

func TestSchemaAddRelationshipRejectsSelfReference(t *testing.T) {
	s := aggregate.NewSchema("schema-1")
	require.NoError(t, s.AddEntity(aggregate.NewEntity("invoice", "invoice.name", true)))

	rel := &aggregate.Relationship{
		ID: "r1", SourceEntityID: "invoice", TargetEntityID: "invoice",
		RelationshipType: valuemodel.RelationshipContains, NameKey: "r1.name",
	}
	err := s.AddRelationship(rel)
	require.Error(t, err)
}

func TestSchemaAddRelationshipRejectsDanglingEndpoints(t *testing.T) {
	s := aggregate.NewSchema("schema-1")
	require.NoError(t, s.AddEntity(aggregate.NewEntity("invoice", "invoice.name", true)))

	rel := &aggregate.Relationship{
		ID: "r1", SourceEntityID: "invoice", TargetEntityID: "missing",
		RelationshipType: valuemodel.RelationshipContains, NameKey: "r1.name",
	}
	err := s.AddRelationship(rel)
	require.ErrorIs(t, err, errors.ErrDanglingReference)
}

func TestSchemaAddRelationshipAccepted(t *testing.T) {
	s := aggregate.NewSchema("schema-1")
	require.NoError(t, s.AddEntity(aggregate.NewEntity("invoice", "invoice.name", true)))
	require.NoError(t, s.AddEntity(aggregate.NewEntity("line_item", "line_item.name", false)))

	rel := &aggregate.Relationship{
		ID: "r1", SourceEntityID: "invoice", TargetEntityID: "line_item",
		RelationshipType: valuemodel.RelationshipContains, NameKey: "r1.name",
	}
	require.NoError(t, s.AddRelationship(rel))
	require.Len(t, s.Relationships(), 1)

	require.NoError(t, s.UpdateRelationshipMetadata("r1", "r1.renamed", "r1.desc", "r1.inverse"))
	require.NoError(t, s.DeleteRelationship("r1"))
	require.Empty(t, s.Relationships())
}

func TestSchemaViewResolvesFieldTypeAndDisplayability(t *testing.T) {
	invoice := aggregate.NewEntity("invoice", "invoice.name", true)
	view := aggregate.NewSchemaView([]*aggregate.Entity{invoice})
	require.NoError(t, invoice.AddField(textField("amount"), view))

	v := aggregate.NewSchemaView([]*aggregate.Entity{invoice})
	ft, ok := v.FieldType("invoice", "amount")
	require.True(t, ok)
	require.Equal(t, valuemodel.FieldTypeText, ft)
	require.True(t, v.IsDisplayableScalar("invoice", "amount"))

	fs := v.FieldSet("invoice")
	require.Equal(t, valuemodel.FieldTypeText, fs["amount"])
}

func TestSchemaViewFieldSetUnknownEntityIsEmpty(t *testing.T) {
	v := aggregate.NewSchemaView(nil)
	require.Empty(t, v.FieldSet("ghost"))
}
