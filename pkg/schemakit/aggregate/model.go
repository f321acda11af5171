// Package aggregate implements the entity/field consistency boundary: the
// typed Field and Entity types, their
// mutation invariants, and the Relationship design-time construct. Formula
// text is stored opaque here — this package never parses a formula.
package aggregate

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// Option is one entry of a DROPDOWN/RADIO field's ordered option sequence.
type Option struct {
	Value    string
	LabelKey ids.TranslationKey
}

// ControlRule drives a target field's visibility/enablement/required
// state from a BOOLEAN formula. Exactly one rule per
// (field, rule_type) may exist on a Field.
type ControlRule struct {
	RuleType      valuemodel.ControlRuleType
	TargetFieldID ids.FieldId
	FormulaText   string
}

// OutputMapping associates a design-time formula with a typed output slot.
// Exactly one mapping per (field, target) may exist on a Field.
type OutputMapping struct {
	Target      valuemodel.OutputTarget
	FormulaText string
}

// Field is one attribute of an Entity. Only the fields
// relevant to a field's declared Type are populated; the aggregate never
// interprets Formula — it is opaque text.
type Field struct {
	ID           ids.FieldId
	Type         valuemodel.FieldType
	LabelKey     ids.TranslationKey
	HelpTextKey  ids.TranslationKey // empty if unset
	Required     bool
	DefaultValue *string

	Options []Option // DROPDOWN/RADIO only

	Constraints    []constraint.Constraint // unordered set, at most one per Kind
	ControlRules   map[valuemodel.ControlRuleType]ControlRule
	OutputMappings map[valuemodel.OutputTarget]OutputMapping

	Formula string // CALCULATED only; opaque text, never parsed here

	LookupEntityID     ids.EntityId // LOOKUP only
	LookupDisplayField ids.FieldId  // LOOKUP only, optional

	ChildEntityID ids.EntityId // TABLE only
}

// cloneOptions returns a deep copy of f's option sequence, preserving order.
func (f *Field) cloneOptions() []Option {
	out := make([]Option, len(f.Options))
	copy(out, f.Options)
	return out
}

// Entity is an insertion-order-preserving aggregate of Fields. It
// exclusively owns its fields; no back-reference
// from Field to Entity is stored.
type Entity struct {
	ID             ids.EntityId
	NameKey        ids.TranslationKey
	DescriptionKey ids.TranslationKey // empty if unset
	IsRootEntity   bool
	ParentEntityID ids.EntityId // empty if unset

	order  []ids.FieldId
	fields map[ids.FieldId]*Field
}

// NewEntity constructs an empty Entity.
func NewEntity(id ids.EntityId, nameKey ids.TranslationKey, isRoot bool) *Entity {
	return &Entity{
		ID:           id,
		NameKey:      nameKey,
		IsRootEntity: isRoot,
		fields:       make(map[ids.FieldId]*Field),
	}
}

// Fields returns the entity's fields in insertion order.
func (e *Entity) Fields() []*Field {
	out := make([]*Field, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.fields[id])
	}
	return out
}

// Field returns the field with the given id, if present.
func (e *Entity) Field(id ids.FieldId) (*Field, bool) {
	f, ok := e.fields[id]
	return f, ok
}

// HasField reports whether id names a field on e.
func (e *Entity) HasField(id ids.FieldId) bool {
	_, ok := e.fields[id]
	return ok
}

// FieldCount returns the number of fields on e.
func (e *Entity) FieldCount() int { return len(e.order) }

// Relationship is a design-time link between two entities, carrying no
// runtime semantics.
type Relationship struct {
	ID               ids.RelationshipId
	SourceEntityID   ids.EntityId
	TargetEntityID   ids.EntityId
	RelationshipType valuemodel.RelationshipType
	NameKey          ids.TranslationKey
	DescriptionKey   ids.TranslationKey // empty if unset
	InverseNameKey   ids.TranslationKey // empty if unset
}
