package usecase

import (
	"context"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/controlrule"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// AddControlRule validates rule against the shared formula pipeline
// and installs it on fieldID unless the result is BLOCKED. BLOCKED
// rules are never persisted; a CLEARED (whitespace-only) formula is
// stored as given, replacing any existing rule of that type.
func (s *Service) AddControlRule(ctx context.Context, entityID, fieldID string, rule aggregate.ControlRule) (controlrule.Result, error) {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return controlrule.Result{}, err
	}
	eID := ids.EntityId(entityID)
	fID := ids.FieldId(fieldID)
	e, err := loadEntity(view, eID)
	if err != nil {
		return controlrule.Result{}, err
	}
	if !e.HasField(fID) {
		return controlrule.Result{}, fieldNotFound(eID, fID)
	}
	if !rule.RuleType.IsValid() {
		return controlrule.Result{}, errors.ErrUnknownRuleType
	}
	if !e.HasField(rule.TargetFieldID) {
		return controlrule.Result{}, errors.ErrDanglingReference
	}

	result := controlrule.ValidateWithCycle(rule.FormulaText, view.FieldSet(eID), inCycle(e, fID))
	if result.IsBlocked() {
		return result, errors.ErrControlRuleInvalid.Copy().WithSuggestion(result.BlockReason)
	}

	f, _ := e.Field(fID)
	f.SetControlRule(rule)
	if err := s.Entities.Update(ctx, e); err != nil {
		return result, err
	}
	s.logAndCount(ctx, "control_rule_added", logger.Fields{"entity_id": entityID, "field_id": fieldID, "rule_type": string(rule.RuleType)})
	return result, nil
}

// UpdateControlRule re-validates and replaces the rule for rule.RuleType
// on fieldID. Identical semantics to AddControlRule: exactly one rule per
// (field, rule_type) exists by construction (the map key).
func (s *Service) UpdateControlRule(ctx context.Context, entityID, fieldID string, rule aggregate.ControlRule) (controlrule.Result, error) {
	return s.AddControlRule(ctx, entityID, fieldID, rule)
}

// DeleteControlRule removes the rule of ruleType from fieldID, if any.
func (s *Service) DeleteControlRule(ctx context.Context, entityID, fieldID string, ruleType valuemodel.ControlRuleType) error {
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
	f.DeleteControlRule(ruleType)
	if err := s.Entities.Update(ctx, e); err != nil {
		return err
	}
	s.logAndCount(ctx, "control_rule_deleted", logger.Fields{"entity_id": entityID, "field_id": fieldID, "rule_type": string(ruleType)})
	return nil
}

// ListControlRules returns every control rule installed on fieldID.
func (s *Service) ListControlRules(ctx context.Context, entityID, fieldID string) ([]aggregate.ControlRule, error) {
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
	out := make([]aggregate.ControlRule, 0, len(f.ControlRules))
	for _, rt := range []valuemodel.ControlRuleType{valuemodel.ControlRuleVisibility, valuemodel.ControlRuleEnabled, valuemodel.ControlRuleRequired} {
		if r, ok := f.ControlRules[rt]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// PreviewControlRule validates rule in context, then — only if ALLOWED —
// evaluates it against values, an in-memory field_id -> value map
// supplied by the designer UI. No persistence, no repeat
// repository read beyond the single snapshot this command loads.
func (s *Service) PreviewControlRule(ctx context.Context, entityID, fieldID string, rule aggregate.ControlRule, values map[string]any) (controlrule.PreviewResult, error) {
	view, _, err := s.loadView(ctx)
	if err != nil {
		return controlrule.PreviewResult{}, err
	}
	eID := ids.EntityId(entityID)
	if _, err := loadEntity(view, eID); err != nil {
		return controlrule.PreviewResult{}, err
	}
	result, err := controlrule.Preview(rule.FormulaText, view.FieldSet(eID), values)
	if err != nil {
		return result, err
	}
	return result, nil
}
