package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// AddOption appends opt to fieldID's ordered option sequence, enforcing
// value uniqueness via aggregate.Field.AddOption.
func (s *Service) AddOption(ctx context.Context, entityID, fieldID string, opt aggregate.Option) error {
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
	if err := f.AddOption(opt); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "option_added", logger.Fields{"entity_id": entityID, "field_id": fieldID, "value": opt.Value})
	return nil
}

// UpdateOptionLabel changes the label of the option identified by value.
func (s *Service) UpdateOptionLabel(ctx context.Context, entityID, fieldID, value, labelKey string) error {
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
	if err := f.UpdateOptionLabel(value, ids.TranslationKey(labelKey)); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "option_label_updated", logger.Fields{"entity_id": entityID, "field_id": fieldID, "value": value})
	return nil
}

// DeleteOption removes the option identified by value from fieldID.
func (s *Service) DeleteOption(ctx context.Context, entityID, fieldID, value string) error {
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
	if err := f.DeleteOption(value); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "option_deleted", logger.Fields{"entity_id": entityID, "field_id": fieldID, "value": value})
	return nil
}

// ReorderOptions applies a full reordering of fieldID's options, expressed
// as the option values in their new order.
func (s *Service) ReorderOptions(ctx context.Context, entityID, fieldID string, newOrder []string) error {
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
	if err := f.ReorderOption(newOrder); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "options_reordered", logger.Fields{"entity_id": entityID, "field_id": fieldID})
	return nil
}

// ListOptions returns fieldID's option sequence, in display order.
func (s *Service) ListOptions(ctx context.Context, entityID, fieldID string) ([]aggregate.Option, error) {
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
	return f.Options, nil
}
