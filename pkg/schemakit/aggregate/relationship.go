package aggregate

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// AddEntity inserts e into s; no two entities may share an id.
func (s *Schema) AddEntity(e *Entity) error {
	if s.HasEntity(e.ID) {
		return errors.ErrDuplicateID
	}
	s.entities[e.ID] = e
	s.entityOrder = append(s.entityOrder, e.ID)
	return nil
}

// DeleteEntity removes id from s. Callers must have already confirmed
// via dependency inspection that no TABLE child_entity_id, LOOKUP
// lookup_entity_id, or parent_entity_id still refers to id.
func (s *Schema) DeleteEntity(id ids.EntityId) error {
	if !s.HasEntity(id) {
		return errors.ErrEntityNotFound
	}
	delete(s.entities, id)
	for i, existingID := range s.entityOrder {
		if existingID == id {
			s.entityOrder = append(s.entityOrder[:i], s.entityOrder[i+1:]...)
			break
		}
	}
	return nil
}

// AddRelationship inserts rel into s, enforcing id uniqueness and that
// source and target are distinct, existing entities.
func (s *Schema) AddRelationship(rel *Relationship) error {
	if _, exists := s.relationships[rel.ID]; exists {
		return errors.ErrDuplicateID
	}
	if err := validateRelationship(rel, s.View()); err != nil {
		return err
	}
	s.relationships[rel.ID] = rel
	s.relOrder = append(s.relOrder, rel.ID)
	return nil
}

// UpdateRelationshipMetadata replaces a relationship's descriptive
// attributes. source_entity_id and target_entity_id are immutable once
// created ("update metadata (source/target immutable)").
func (s *Schema) UpdateRelationshipMetadata(id ids.RelationshipId, nameKey, descriptionKey, inverseNameKey ids.TranslationKey) error {
	rel, ok := s.relationships[id]
	if !ok {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	rel.NameKey = nameKey
	rel.DescriptionKey = descriptionKey
	rel.InverseNameKey = inverseNameKey
	return nil
}

// DeleteRelationship removes id from s. Relationships carry no runtime
// semantics, so no dependency inspection is required before deletion.
func (s *Schema) DeleteRelationship(id ids.RelationshipId) error {
	if _, ok := s.relationships[id]; !ok {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	delete(s.relationships, id)
	for i, existingID := range s.relOrder {
		if existingID == id {
			s.relOrder = append(s.relOrder[:i], s.relOrder[i+1:]...)
			break
		}
	}
	return nil
}

// validateRelationship checks that the source and target entities
// differ and both exist in view.
func validateRelationship(rel *Relationship, view *SchemaView) error {
	if rel.SourceEntityID == rel.TargetEntityID {
		return errors.NewInvariantViolation("RELATIONSHIP_SELF_REFERENTIAL", "source_entity_id must not equal target_entity_id")
	}
	if !view.EntityExists(rel.SourceEntityID) {
		return errors.ErrDanglingReference
	}
	if !view.EntityExists(rel.TargetEntityID) {
		return errors.ErrDanglingReference
	}
	return nil
}
