package aggregate

import "github.com/niiniyare/schemaforge/pkg/schemakit/ids"

// Schema is the top-level persisted aggregate: the full set of entities
// and relationships a repository loads and saves atomically — an imported
// schema replaces the corresponding aggregate instances
// atomically. It is the mutable counterpart to the read-only
// SchemaView a use-case builds for invariant checking.
type Schema struct {
	ID            ids.SchemaId
	Version       string
	entities      map[ids.EntityId]*Entity
	entityOrder   []ids.EntityId
	relationships map[ids.RelationshipId]*Relationship
	relOrder      []ids.RelationshipId
}

// NewSchema constructs an empty Schema.
func NewSchema(id ids.SchemaId) *Schema {
	return &Schema{
		ID:            id,
		entities:      make(map[ids.EntityId]*Entity),
		relationships: make(map[ids.RelationshipId]*Relationship),
	}
}

// Entities returns the schema's entities in insertion order.
func (s *Schema) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.entityOrder))
	for _, id := range s.entityOrder {
		out = append(out, s.entities[id])
	}
	return out
}

// Entity returns the entity with the given id, if present.
func (s *Schema) Entity(id ids.EntityId) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// HasEntity reports whether id names an entity on s.
func (s *Schema) HasEntity(id ids.EntityId) bool {
	_, ok := s.entities[id]
	return ok
}

// View builds the read-only SchemaView invariant checks and the formula
// analyzer consult, reflecting s's current state.
func (s *Schema) View() *SchemaView {
	return NewSchemaView(s.Entities())
}

// Relationships returns the schema's relationships in insertion order.
func (s *Schema) Relationships() []*Relationship {
	out := make([]*Relationship, 0, len(s.relOrder))
	for _, id := range s.relOrder {
		out = append(out, s.relationships[id])
	}
	return out
}
