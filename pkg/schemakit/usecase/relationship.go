package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// CreateRelationship persists rel after checking that the source and
// target entities differ and both exist.
// Relationships are persisted flat, one per record — there is no
// enclosing Schema aggregate at this layer, only the cross-entity
// SchemaView built fresh from the current Entities snapshot.
func (s *Service) CreateRelationship(ctx context.Context, rel *aggregate.Relationship) error {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	if err := validateRelationshipEndpoints(rel, view); err != nil {
		return err
	}
	if err := s.Relationships.Save(ctx, rel); err != nil {
		return err
	}
	s.logAndCount(ctx, "relationship_created", logger.Fields{
		"relationship_id": string(rel.ID),
		"source_entity":   string(rel.SourceEntityID),
		"target_entity":   string(rel.TargetEntityID),
	})
	return nil
}

// UpdateRelationshipMetadata replaces a relationship's descriptive
// attributes. source_entity_id and target_entity_id are immutable once
// created; this method never touches them.
func (s *Service) UpdateRelationshipMetadata(ctx context.Context, relationshipID, nameKey, descriptionKey, inverseNameKey string) error {
	relID := ids.RelationshipId(relationshipID)
	rel, err := s.Relationships.GetByID(ctx, relID)
	if err != nil {
		return err
	}
	rel.NameKey = ids.TranslationKey(nameKey)
	rel.DescriptionKey = ids.TranslationKey(descriptionKey)
	rel.InverseNameKey = ids.TranslationKey(inverseNameKey)
	if err := s.Relationships.Update(ctx, rel); err != nil {
		return err
	}
	s.logAndCount(ctx, "relationship_updated", logger.Fields{"relationship_id": relationshipID})
	return nil
}

// DeleteRelationship removes relationshipID. Relationships carry no
// runtime semantics of their own, so no dependency inspection is required
// before deletion.
func (s *Service) DeleteRelationship(ctx context.Context, relationshipID string) error {
	relID := ids.RelationshipId(relationshipID)
	if ok, err := s.Relationships.Exists(ctx, relID); err != nil {
		return err
	} else if !ok {
		return errors.NewBusinessError(errors.CodeRelationshipNotFound, "relationship not found")
	}
	if err := s.Relationships.Delete(ctx, relID); err != nil {
		return err
	}
	s.logAndCount(ctx, "relationship_deleted", logger.Fields{"relationship_id": relationshipID})
	return nil
}

// ListRelationships returns every persisted relationship.
func (s *Service) ListRelationships(ctx context.Context) ([]*aggregate.Relationship, error) {
	return s.Relationships.GetAll(ctx)
}

// validateRelationshipEndpoints mirrors aggregate.validateRelationship
// for the flat-repository relationship path: source and target entities
// must differ and both must exist in view.
func validateRelationshipEndpoints(rel *aggregate.Relationship, view *aggregate.SchemaView) error {
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
