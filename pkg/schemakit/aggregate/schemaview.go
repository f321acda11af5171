package aggregate

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// SchemaView is the single, read-only snapshot of every entity a use-case
// loads once and reasons about for the remainder of its execution. It
// answers the cross-entity
// questions a field's invariants need (LOOKUP/TABLE target existence,
// displayable-scalar checks) without re-reading the repository mid-use-case.
type SchemaView struct {
	entities map[ids.EntityId]*Entity
}

// NewSchemaView builds a view over entities, keyed by id.
func NewSchemaView(entities []*Entity) *SchemaView {
	v := &SchemaView{entities: make(map[ids.EntityId]*Entity, len(entities))}
	for _, e := range entities {
		v.entities[e.ID] = e
	}
	return v
}

// EntityExists reports whether id names a known entity.
func (v *SchemaView) EntityExists(id ids.EntityId) bool {
	_, ok := v.entities[id]
	return ok
}

// Entity returns the entity with the given id, if present.
func (v *SchemaView) Entity(id ids.EntityId) (*Entity, bool) {
	e, ok := v.entities[id]
	return e, ok
}

// Entities returns every entity in the view, order unspecified.
func (v *SchemaView) Entities() []*Entity {
	out := make([]*Entity, 0, len(v.entities))
	for _, e := range v.entities {
		out = append(out, e)
	}
	return out
}

// FieldType resolves (entityID, fieldID) to its declared FieldType.
func (v *SchemaView) FieldType(entityID ids.EntityId, fieldID ids.FieldId) (valuemodel.FieldType, bool) {
	e, ok := v.entities[entityID]
	if !ok {
		return "", false
	}
	f, ok := e.Field(fieldID)
	if !ok {
		return "", false
	}
	return f.Type, true
}

// IsDisplayableScalar reports whether (entityID, fieldID) refers to a
// field whose type may serve as a LOOKUP field's lookup_display_field.
func (v *SchemaView) IsDisplayableScalar(entityID ids.EntityId, fieldID ids.FieldId) bool {
	ft, ok := v.FieldType(entityID, fieldID)
	return ok && ft.IsDisplayableScalar()
}

// FieldSet builds the formula.FieldSet for a single entity, the only
// schema context the formula analyzer consumes.
func (v *SchemaView) FieldSet(entityID ids.EntityId) formula.FieldSet {
	e, ok := v.entities[entityID]
	if !ok {
		return formula.FieldSet{}
	}
	fs := make(formula.FieldSet, e.FieldCount())
	for _, f := range e.Fields() {
		fs[string(f.ID)] = f.Type
	}
	return fs
}
