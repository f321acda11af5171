package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
	"github.com/niiniyare/schemaforge/pkg/shared"
)

// CreateEntityInput carries the primitive fields a new Entity needs.
type CreateEntityInput struct {
	ID             string `json:"id" validate:"required"`
	NameKey        string `json:"name_key" validate:"required"`
	DescriptionKey string `json:"description_key,omitempty"`
	IsRootEntity   bool   `json:"is_root_entity"`
	ParentEntityID string `json:"parent_entity_id,omitempty"` // empty if this entity has no parent
}

// CreateEntity adds a new entity to the schema, enforcing id uniqueness
// and, if ParentEntityID is set, that the parent exists.
func (s *Service) CreateEntity(ctx context.Context, in CreateEntityInput) (string, error) {
	if err := shared.ValidateStruct(in); err != nil {
		return "", err
	}

	view, _, err := s.loadView(ctx)
	if err != nil {
		return "", err
	}

	entityID, err := ids.NewEntityId(in.ID)
	if err != nil {
		return "", errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}
	if view.EntityExists(entityID) {
		return "", errors.ErrDuplicateID
	}
	nameKey, err := ids.NewTranslationKey(in.NameKey)
	if err != nil {
		return "", errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}

	e := aggregate.NewEntity(entityID, nameKey, in.IsRootEntity)
	e.DescriptionKey = ids.TranslationKey(in.DescriptionKey)
	if in.ParentEntityID != "" {
		parentID := ids.EntityId(in.ParentEntityID)
		if !view.EntityExists(parentID) {
			return "", errors.ErrDanglingReference
		}
		e.ParentEntityID = parentID
	}

	if err := s.Entities.Save(ctx, e); err != nil {
		return "", err
	}
	s.logAndCount(ctx, "entity_created", logger.Fields{"entity_id": string(entityID)})
	return string(entityID), nil
}

// UpdateEntityMetadata replaces an existing entity's descriptive
// attributes (name_key, description_key). Structural attributes (id,
// is_root_entity, parent_entity_id) are immutable through this use-case.
func (s *Service) UpdateEntityMetadata(ctx context.Context, entityID, nameKey, descriptionKey string) error {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	e, err := loadEntity(view, ids.EntityId(entityID))
	if err != nil {
		return err
	}
	nk, err := ids.NewTranslationKey(nameKey)
	if err != nil {
		return errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}
	e.UpdateMetadata(nk, ids.TranslationKey(descriptionKey))
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "entity_updated", logger.Fields{"entity_id": entityID})
	return nil
}

// DeleteEntity removes an entity after confirming no other entity's
// TABLE child_entity_id, LOOKUP lookup_entity_id, or parent_entity_id
// still refers to it.
func (s *Service) DeleteEntity(ctx context.Context, entityID string) error {
	view, entities, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	id := ids.EntityId(entityID)
	if _, err := loadEntity(view, id); err != nil {
		return err
	}

	deps := repository.ComputeEntityDependencies(entities, id)
	if len(deps) > 0 {
		referrers := make([]string, 0, len(deps))
		for _, d := range deps {
			referrers = append(referrers, string(d.EntityID))
		}
		return errors.ErrEntityReferenced(entityID, referrers)
	}

	if err := s.Entities.Delete(ctx, id); err != nil {
		return err
	}
	s.logAndCount(ctx, "entity_deleted", logger.Fields{"entity_id": entityID})
	return nil
}
