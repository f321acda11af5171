package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/niiniyare/schemaforge/pkg/shared"
)

// AddFieldInput carries the primitive attributes needed to construct a
// new Field. Only the attributes relevant to Type are
// read — e.g. LookupEntityID is ignored unless Type is LOOKUP.
type AddFieldInput struct {
	ID                 string  `json:"id" validate:"required"`
	Type               string  `json:"field_type" validate:"required"`
	LabelKey           string  `json:"label_key" validate:"required"`
	HelpTextKey        string  `json:"help_text_key,omitempty"`
	Required           bool    `json:"required"`
	DefaultValue       *string `json:"default_value,omitempty"`
	LookupEntityID     string  `json:"lookup_entity_id,omitempty"`
	LookupDisplayField string  `json:"lookup_display_field,omitempty"`
	ChildEntityID      string  `json:"child_entity_id,omitempty"`
	Formula            string  `json:"formula,omitempty"`
}

func (in AddFieldInput) toField() (*aggregate.Field, error) {
	ft := valuemodel.FieldType(in.Type)
	if !ft.IsValid() {
		return nil, errors.NewBusinessError(errors.CodeInvalidType, "unknown field_type").WithCategory(errors.CategoryValidation)
	}
	fieldID, err := ids.NewFieldId(in.ID)
	if err != nil {
		return nil, errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}
	labelKey, err := ids.NewTranslationKey(in.LabelKey)
	if err != nil {
		return nil, errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}

	f := &aggregate.Field{
		ID:           fieldID,
		Type:         ft,
		LabelKey:     labelKey,
		HelpTextKey:  ids.TranslationKey(in.HelpTextKey),
		Required:     in.Required,
		DefaultValue: in.DefaultValue,
	}
	switch ft {
	case valuemodel.FieldTypeCalculated:
		f.Formula = in.Formula
	case valuemodel.FieldTypeLookup:
		f.LookupEntityID = ids.EntityId(in.LookupEntityID)
		f.LookupDisplayField = ids.FieldId(in.LookupDisplayField)
	case valuemodel.FieldTypeTable:
		f.ChildEntityID = ids.EntityId(in.ChildEntityID)
	}
	return f, nil
}

// AddField adds a new field to entityID; id uniqueness and the per-type
// shape rules are enforced by aggregate.Entity.AddField.
func (s *Service) AddField(ctx context.Context, entityID string, in AddFieldInput) (string, error) {
	if err := shared.ValidateStruct(in); err != nil {
		return "", err
	}

	view, _, err := s.loadView(ctx)
	if err != nil {
		return "", err
	}
	e, err := loadEntity(view, ids.EntityId(entityID))
	if err != nil {
		return "", err
	}
	f, err := in.toField()
	if err != nil {
		return "", err
	}
	if err := e.AddField(f, view); err != nil {
		return "", err
	}
	if err := s.Entities.Save(ctx, e); err != nil {
		return "", err
	}
	s.logAndCount(ctx, "field_added", logger.Fields{"entity_id": entityID, "field_id": in.ID})
	return in.ID, nil
}

// UpdateFieldMetadataInput carries the mutable attributes of an existing
// field. ID and Type must match the existing field exactly — the
// aggregate enforces id and type immutability.
type UpdateFieldMetadataInput struct {
	ID                 string
	Type               string
	LabelKey           string
	HelpTextKey        string
	Required           bool
	DefaultValue       *string
	LookupEntityID     string
	LookupDisplayField string
	ChildEntityID      string
	Formula            string
}

// UpdateFieldMetadata replaces fieldID's mutable attributes on entityID.
func (s *Service) UpdateFieldMetadata(ctx context.Context, entityID string, in UpdateFieldMetadataInput) error {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	e, err := loadEntity(view, ids.EntityId(entityID))
	if err != nil {
		return err
	}
	newField, err := AddFieldInput(in).toField()
	if err != nil {
		return err
	}
	if err := e.UpdateField(newField.ID, newField, view); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "field_updated", logger.Fields{"entity_id": entityID, "field_id": in.ID})
	return nil
}

// DeleteField removes fieldID from entityID after confirming no formula,
// control rule, output mapping, or LOOKUP display-field reference to it
// survives elsewhere in the schema.
func (s *Service) DeleteField(ctx context.Context, entityID, fieldID string) error {
	view, entities, err := s.loadView(ctx)
	if err != nil {
		return err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return err
	}
	if !e.HasField(fID) {
		return fieldNotFound(eID, fID)
	}

	deps := repository.ComputeFieldDependencies(entities, eID, fID)
	if len(deps) > 0 {
		referrers := make([]string, 0, len(deps))
		for _, d := range deps {
			referrers = append(referrers, string(d.EntityID)+"."+string(d.FieldID))
		}
		return errors.ErrFieldReferenced(entityID, fieldID, referrers)
	}

	if err := e.DeleteField(fID); err != nil {
		return err
	}
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "field_deleted", logger.Fields{"entity_id": entityID, "field_id": fieldID})
	return nil
}
