package aggregate

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// AddField appends f to e, enforcing id uniqueness within the entity
// and the per-type field-shape rules. view supplies the cross-entity
// context the LOOKUP and TABLE checks need.
func (e *Entity) AddField(f *Field, view *SchemaView) error {
	if e.HasField(f.ID) {
		return errors.ErrDuplicateID
	}
	if err := validateField(e.ID, f, view); err != nil {
		return err
	}
	e.fields[f.ID] = f
	e.order = append(e.order, f.ID)
	return nil
}

// UpdateField replaces the field at fieldID with newField, verifying id
// and type immutability before replacing the entry; the shape rules are
// re-checked against the replacement.
func (e *Entity) UpdateField(fieldID ids.FieldId, newField *Field, view *SchemaView) error {
	existing, ok := e.fields[fieldID]
	if !ok {
		return errors.ErrFieldNotFound
	}
	if newField.ID != existing.ID {
		return errors.NewInvariantViolation("FIELD_ID_IMMUTABLE", "a field's id cannot change after creation")
	}
	if newField.Type != existing.Type {
		return errors.ErrFieldTypeImmutable
	}
	if err := validateField(e.ID, newField, view); err != nil {
		return err
	}
	e.fields[existing.ID] = newField
	return nil
}

// DeleteField removes fieldID from e. Callers must have already confirmed
// dependency safety via the use-case layer's dependency inspection; the
// aggregate itself performs no such check, since it has no visibility
// into other entities' formulas or control rules.
func (e *Entity) DeleteField(fieldID ids.FieldId) error {
	if !e.HasField(fieldID) {
		return errors.ErrFieldNotFound
	}
	delete(e.fields, fieldID)
	for i, existingID := range e.order {
		if existingID == fieldID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// UnsafeSetField installs f on e without running validateField. It exists
// solely for deserialization (interchange.EntityDTO.ToDomain, repository
// backends loading from storage). Import re-checks constraint sets,
// control rules, and output mappings once the whole schema is converted;
// repository loads re-validate nothing, and the bootstrap sanitizer
// removes corrupt rows.
func (e *Entity) UnsafeSetField(f *Field) {
	if !e.HasField(f.ID) {
		e.order = append(e.order, f.ID)
	}
	e.fields[f.ID] = f
}

// UpdateMetadata replaces e's descriptive attributes. id, is_root_entity,
// and parent_entity_id are structural and not touched here; use a
// dedicated relationship/reparent operation if that is ever needed.
func (e *Entity) UpdateMetadata(nameKey, descriptionKey ids.TranslationKey) {
	e.NameKey = nameKey
	e.DescriptionKey = descriptionKey
}

// AddOption appends opt to field's option sequence; no two options on
// the same field may share a Value.
func (f *Field) AddOption(opt Option) error {
	for _, existing := range f.Options {
		if existing.Value == opt.Value {
			return errors.ErrDuplicateOptionValue
		}
	}
	f.Options = append(f.Options, opt)
	return nil
}

// UpdateOptionLabel changes the label of the option identified by value,
// leaving its position and value untouched.
func (f *Field) UpdateOptionLabel(value string, labelKey ids.TranslationKey) error {
	for i, o := range f.Options {
		if o.Value == value {
			f.Options[i].LabelKey = labelKey
			return nil
		}
	}
	return errors.NewBusinessError(errors.CodeNotFound, "option not found")
}

// DeleteOption removes the option identified by value.
func (f *Field) DeleteOption(value string) error {
	for i, o := range f.Options {
		if o.Value == value {
			f.Options = append(f.Options[:i], f.Options[i+1:]...)
			return nil
		}
	}
	return errors.NewBusinessError(errors.CodeNotFound, "option not found")
}

// ReorderOption applies a full reordering of f's options, expressed as the
// complete sequence of option values in their new order. It rejects
// anything that is not a permutation of the existing set — duplicates,
// omissions, or unknown values.
func (f *Field) ReorderOption(newOrder []string) error {
	if len(newOrder) != len(f.Options) {
		return errors.ErrInvalidPermutation
	}
	byValue := make(map[string]Option, len(f.Options))
	for _, o := range f.Options {
		byValue[o.Value] = o
	}
	seen := make(map[string]bool, len(newOrder))
	out := make([]Option, 0, len(newOrder))
	for _, v := range newOrder {
		if seen[v] {
			return errors.ErrInvalidPermutation
		}
		o, ok := byValue[v]
		if !ok {
			return errors.ErrInvalidPermutation
		}
		seen[v] = true
		out = append(out, o)
	}
	f.Options = out
	return nil
}

// SetControlRule installs or replaces the rule for ruleType, enforcing
// "exactly one rule per (field, rule_type)" by keying on the map itself.
func (f *Field) SetControlRule(rule ControlRule) {
	if f.ControlRules == nil {
		f.ControlRules = make(map[valuemodel.ControlRuleType]ControlRule)
	}
	f.ControlRules[rule.RuleType] = rule
}

// DeleteControlRule removes the rule of the given type, if any.
func (f *Field) DeleteControlRule(ruleType valuemodel.ControlRuleType) {
	delete(f.ControlRules, ruleType)
}

// SetOutputMapping installs or replaces the mapping for target, enforcing
// "exactly one mapping per (field, target)" via the map key.
func (f *Field) SetOutputMapping(mapping OutputMapping) {
	if f.OutputMappings == nil {
		f.OutputMappings = make(map[valuemodel.OutputTarget]OutputMapping)
	}
	f.OutputMappings[mapping.Target] = mapping
}

// DeleteOutputMapping removes the mapping for target, if any.
func (f *Field) DeleteOutputMapping(target valuemodel.OutputTarget) {
	delete(f.OutputMappings, target)
}
