package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// AddConstraint runs the constraint application service against fieldID
// and persists the result. c is a typed domain value, never a
// presentation DTO.
func (s *Service) AddConstraint(ctx context.Context, entityID, fieldID string, c constraint.Constraint) error {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return err
	}
	f, ok := e.Field(fID)
	if !ok {
		return fieldNotFound(eID, fID)
	}

	if err := constraint.Validate(f.Type, f.Constraints, c); err != nil {
		return err
	}
	f.Constraints = append(f.Constraints, c)

	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "constraint_added", logger.Fields{"entity_id": entityID, "field_id": fieldID, "kind": string(c.Kind())})
	return nil
}

// DeleteConstraint removes the constraint of the given kind from fieldID,
// if present. Deletion is unconditional: the min/max ordering check
// only gates additions, never removals.
func (s *Service) DeleteConstraint(ctx context.Context, entityID, fieldID string, kind constraint.Kind) error {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return err
	}
	f, ok := e.Field(fID)
	if !ok {
		return fieldNotFound(eID, fID)
	}

	out := f.Constraints[:0]
	for _, c := range f.Constraints {
		if c.Kind() != kind {
			out = append(out, c)
		}
	}
	f.Constraints = out

	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "constraint_deleted", logger.Fields{"entity_id": entityID, "field_id": fieldID, "kind": string(kind)})
	return nil
}

// ListConstraints returns fieldID's constraint set, in storage order.
func (s *Service) ListConstraints(ctx context.Context, entityID, fieldID string) ([]constraint.Constraint, error) {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return nil, err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return nil, err
	}
	f, ok := e.Field(fID)
	if !ok {
		return nil, fieldNotFound(eID, fID)
	}
	return f.Constraints, nil
}
