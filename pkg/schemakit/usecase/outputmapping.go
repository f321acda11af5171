package usecase

import (
	"context"
	"strings"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/binding"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// AddOutputMapping installs an output mapping on fieldID. Only the
// structural checks (non-empty formula text, known target) can reject
// it. The formula's governance classification and the resulting
// binding.Status are computed and returned, but neither blocks the save.
func (s *Service) AddOutputMapping(ctx context.Context, entityID, fieldID string, mapping aggregate.OutputMapping) (binding.Status, error) {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return "", err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return "", err
	}
	f, ok := e.Field(fID)
	if !ok {
		return "", fieldNotFound(eID, fID)
	}
	if !mapping.Target.IsValid() || strings.TrimSpace(mapping.FormulaText) == "" {
		return "", errors.ErrOutputMappingInvalid
	}

	gov := s.classifyGoverned(ctx, mapping.FormulaText, view.FieldSet(eID), inCycle(e, fID))
	status := binding.Decide(true, valuemodel.BindingTargetOutputMapping, gov)

	f.SetOutputMapping(mapping)
	if err := s.Entities.Update(ctx, e); err != nil {
		return status, err
	}
	s.logAndCount(ctx, "output_mapping_added", logger.Fields{"entity_id": entityID, "field_id": fieldID, "target": string(mapping.Target)})
	return status, nil
}

// UpdateOutputMapping replaces the mapping for mapping.Target on fieldID.
func (s *Service) UpdateOutputMapping(ctx context.Context, entityID, fieldID string, mapping aggregate.OutputMapping) (binding.Status, error) {
	return s.AddOutputMapping(ctx, entityID, fieldID, mapping)
}

// DeleteOutputMapping removes the mapping for target from fieldID, if any.
func (s *Service) DeleteOutputMapping(ctx context.Context, entityID, fieldID string, target valuemodel.OutputTarget) error {
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
	f.DeleteOutputMapping(target)
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "output_mapping_deleted", logger.Fields{"entity_id": entityID, "field_id": fieldID, "target": string(target)})
	return nil
}

// ListOutputMappings returns every output mapping installed on fieldID.
func (s *Service) ListOutputMappings(ctx context.Context, entityID, fieldID string) ([]aggregate.OutputMapping, error) {
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
	out := make([]aggregate.OutputMapping, 0, len(f.OutputMappings))
	for _, target := range []valuemodel.OutputTarget{valuemodel.OutputTargetText, valuemodel.OutputTargetNumber, valuemodel.OutputTargetBoolean} {
		if m, ok := f.OutputMappings[target]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
