// Package interchange implements the schema JSON wire format
// and the export, import, and compare operations built on
// it. document.go defines the export/import DTO shape and the pure
// conversions to and from the aggregate domain types; record.go extends
// it with the full-fidelity storage shape the filestore/s3store
// repository backends persist.
package interchange

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// SchemaDocument is the root of the stable export/import JSON shape.
type SchemaDocument struct {
	SchemaID      string            `json:"schema_id"`
	Version       string            `json:"version,omitempty"`
	ExportedAt    string            `json:"exported_at,omitempty"` // ISO8601, set by Export; ignored on import
	Entities      []EntityDTO       `json:"entities"`
	Relationships []RelationshipDTO `json:"relationships,omitempty"`
}

// EntityDTO mirrors one Entity in wire form.
type EntityDTO struct {
	ID             string     `json:"id"`
	NameKey        string     `json:"name_key"`
	DescriptionKey string     `json:"description_key,omitempty"`
	IsRootEntity   bool       `json:"is_root_entity"`
	Fields         []FieldDTO `json:"fields"`
}

// FieldDTO mirrors one Field in wire form. formula, lookup_entity_id,
// lookup_display_field, and child_entity_id are intentionally absent —
// export excludes them by design; import never
// needs to populate them from this shape either.
type FieldDTO struct {
	ID             string             `json:"id"`
	FieldType      string             `json:"field_type"`
	LabelKey       string             `json:"label_key"`
	HelpTextKey    string             `json:"help_text_key,omitempty"`
	Required       bool               `json:"required"`
	DefaultValue   *string            `json:"default_value,omitempty"`
	Options        []OptionDTO        `json:"options,omitempty"`
	Constraints    []ConstraintDTO    `json:"constraints,omitempty"`
	ControlRules   []ControlRuleDTO   `json:"control_rules,omitempty"`
	OutputMappings []OutputMappingDTO `json:"output_mappings,omitempty"`
}

// OptionDTO mirrors one choice-field option.
type OptionDTO struct {
	Value    string `json:"value"`
	LabelKey string `json:"label_key"`
}

// ConstraintDTO mirrors one constraint, kind-tagged with a flat parameter
// bag keyed by the constraint's own parameter names.
type ConstraintDTO struct {
	ConstraintType string         `json:"constraint_type"`
	Parameters     map[string]any `json:"parameters"`
	Severity       string         `json:"severity,omitempty"`
}

// ControlRuleDTO mirrors one control rule.
type ControlRuleDTO struct {
	RuleType      string `json:"rule_type"`
	TargetFieldID string `json:"target_field_id"`
	FormulaText   string `json:"formula_text"`
}

// OutputMappingDTO mirrors one output mapping.
type OutputMappingDTO struct {
	Target      string `json:"target"`
	FormulaText string `json:"formula_text"`
}

// RelationshipDTO mirrors one Relationship.
type RelationshipDTO struct {
	ID               string `json:"id"`
	SourceEntityID   string `json:"source_entity_id"`
	TargetEntityID   string `json:"target_entity_id"`
	RelationshipType string `json:"relationship_type"`
	NameKey          string `json:"name_key"`
	DescriptionKey   string `json:"description_key,omitempty"`
	InverseNameKey   string `json:"inverse_name_key,omitempty"`
}

// EntityFromDomain converts e into its wire shape, omitting the
// behavioral fields export excludes by design. Exported so the
// filestore/s3store repository backends can reuse the same wire format.
func EntityFromDomain(e *aggregate.Entity) EntityDTO {
	fields := e.Fields()
	dto := EntityDTO{
		ID:             string(e.ID),
		NameKey:        string(e.NameKey),
		DescriptionKey: string(e.DescriptionKey),
		IsRootEntity:   e.IsRootEntity,
		Fields:         make([]FieldDTO, 0, len(fields)),
	}
	for _, f := range fields {
		dto.Fields = append(dto.Fields, fieldFromDomain(f))
	}
	return dto
}

func fieldFromDomain(f *aggregate.Field) FieldDTO {
	dto := FieldDTO{
		ID:           string(f.ID),
		FieldType:    string(f.Type),
		LabelKey:     string(f.LabelKey),
		HelpTextKey:  string(f.HelpTextKey),
		Required:     f.Required,
		DefaultValue: f.DefaultValue,
	}
	for _, o := range f.Options {
		dto.Options = append(dto.Options, OptionDTO{Value: o.Value, LabelKey: string(o.LabelKey)})
	}
	for _, c := range f.Constraints {
		dto.Constraints = append(dto.Constraints, constraintToDTO(c))
	}
	// Control rules and output mappings live in maps keyed by kind;
	// serialize them in the enums' declaration order so the same field
	// always produces the same document.
	for _, rt := range []valuemodel.ControlRuleType{valuemodel.ControlRuleVisibility, valuemodel.ControlRuleEnabled, valuemodel.ControlRuleRequired} {
		rule, ok := f.ControlRules[rt]
		if !ok {
			continue
		}
		dto.ControlRules = append(dto.ControlRules, ControlRuleDTO{
			RuleType:      string(rule.RuleType),
			TargetFieldID: string(rule.TargetFieldID),
			FormulaText:   rule.FormulaText,
		})
	}
	for _, target := range []valuemodel.OutputTarget{valuemodel.OutputTargetText, valuemodel.OutputTargetNumber, valuemodel.OutputTargetBoolean} {
		mapping, ok := f.OutputMappings[target]
		if !ok {
			continue
		}
		dto.OutputMappings = append(dto.OutputMappings, OutputMappingDTO{
			Target:      string(mapping.Target),
			FormulaText: mapping.FormulaText,
		})
	}
	return dto
}

// constraintToDTO flattens a typed Constraint into its parameter bag, using
// the kind-specific shape for each constraint kind.
func constraintToDTO(c constraint.Constraint) ConstraintDTO {
	dto := ConstraintDTO{
		ConstraintType: string(c.Kind()),
		Parameters:     map[string]any{},
		Severity:       string(c.Severity()),
	}
	switch v := c.(type) {
	case constraint.Required:
		// no parameters
	case constraint.MinLength:
		dto.Parameters["min_length"] = v.N
	case constraint.MaxLength:
		dto.Parameters["max_length"] = v.N
	case constraint.MinValue:
		dto.Parameters["min_value"] = v.X
	case constraint.MaxValue:
		dto.Parameters["max_value"] = v.X
	case constraint.Pattern:
		dto.Parameters["pattern"] = v.Regex
		if v.Description != "" {
			dto.Parameters["description"] = v.Description
		}
	case constraint.AllowedValues:
		dto.Parameters["allowed_values"] = v.Values
	case constraint.FileExtension:
		dto.Parameters["allowed_extensions"] = v.Extensions
	case constraint.MaxFileSize:
		dto.Parameters["max_size_bytes"] = v.MaxBytes
	}
	return dto
}

// RelationshipFromDomain converts r into its wire shape.
func RelationshipFromDomain(r *aggregate.Relationship) RelationshipDTO {
	return RelationshipDTO{
		ID:               string(r.ID),
		SourceEntityID:   string(r.SourceEntityID),
		TargetEntityID:   string(r.TargetEntityID),
		RelationshipType: string(r.RelationshipType),
		NameKey:          string(r.NameKey),
		DescriptionKey:   string(r.DescriptionKey),
		InverseNameKey:   string(r.InverseNameKey),
	}
}

// ToDomain converts dto back into an Entity, trusting that L2 structural
// validation has already run (import.go) — this is the "L3 domain
// conversion" step.
func (dto EntityDTO) ToDomain() *aggregate.Entity {
	e := aggregate.NewEntity(ids.EntityId(dto.ID), ids.TranslationKey(dto.NameKey), dto.IsRootEntity)
	e.DescriptionKey = ids.TranslationKey(dto.DescriptionKey)
	for _, fieldDTO := range dto.Fields {
		f := fieldDTO.toDomain()
		// Invariant re-validation happens in the import pipeline, which
		// holds the full SchemaView these conversions don't have access
		// to; toDomain here only shapes data.
		e.UnsafeSetField(f)
	}
	return e
}

func (dto FieldDTO) toDomain() *aggregate.Field {
	f := &aggregate.Field{
		ID:           ids.FieldId(dto.ID),
		Type:         valuemodel.FieldType(dto.FieldType),
		LabelKey:     ids.TranslationKey(dto.LabelKey),
		HelpTextKey:  ids.TranslationKey(dto.HelpTextKey),
		Required:     dto.Required,
		DefaultValue: dto.DefaultValue,
	}
	for _, o := range dto.Options {
		f.Options = append(f.Options, aggregate.Option{Value: o.Value, LabelKey: ids.TranslationKey(o.LabelKey)})
	}
	for _, c := range dto.Constraints {
		if built, ok := constraintFromDTO(c); ok {
			f.Constraints = append(f.Constraints, built)
		}
	}
	for _, rule := range dto.ControlRules {
		f.SetControlRule(aggregate.ControlRule{
			RuleType:      valuemodel.ControlRuleType(rule.RuleType),
			TargetFieldID: ids.FieldId(rule.TargetFieldID),
			FormulaText:   rule.FormulaText,
		})
	}
	for _, mapping := range dto.OutputMappings {
		f.SetOutputMapping(aggregate.OutputMapping{
			Target:      valuemodel.OutputTarget(mapping.Target),
			FormulaText: mapping.FormulaText,
		})
	}
	return f
}

// constraintFromDTO rebuilds a typed Constraint from its wire shape.
// Severity defaults to ERROR when absent. ok is false for an
// unrecognized constraint_type, which the import L2/L3 layer treats as a
// strict failure.
func constraintFromDTO(dto ConstraintDTO) (constraint.Constraint, bool) {
	sev := valuemodel.Severity(dto.Severity)
	if sev == "" {
		sev = valuemodel.SeverityError
	}
	switch constraint.Kind(dto.ConstraintType) {
	case constraint.KindRequired:
		return constraint.NewRequired(sev), true
	case constraint.KindMinLength:
		return constraint.NewMinLength(asInt(dto.Parameters["min_length"]), sev), true
	case constraint.KindMaxLength:
		return constraint.NewMaxLength(asInt(dto.Parameters["max_length"]), sev), true
	case constraint.KindMinValue:
		return constraint.NewMinValue(asFloat(dto.Parameters["min_value"]), sev), true
	case constraint.KindMaxValue:
		return constraint.NewMaxValue(asFloat(dto.Parameters["max_value"]), sev), true
	case constraint.KindPattern:
		desc, _ := dto.Parameters["description"].(string)
		pattern, _ := dto.Parameters["pattern"].(string)
		return constraint.NewPattern(pattern, desc, sev), true
	case constraint.KindAllowedValues:
		return constraint.NewAllowedValues(asStringSlice(dto.Parameters["allowed_values"]), sev), true
	case constraint.KindFileExtension:
		return constraint.NewFileExtension(asStringSlice(dto.Parameters["allowed_extensions"]), sev), true
	case constraint.KindMaxFileSize:
		return constraint.NewMaxFileSize(int64(asFloat(dto.Parameters["max_size_bytes"])), sev), true
	default:
		return nil, false
	}
}

// ToDomain converts dto back into a Relationship.
func (dto RelationshipDTO) ToDomain() *aggregate.Relationship {
	return &aggregate.Relationship{
		ID:               ids.RelationshipId(dto.ID),
		SourceEntityID:   ids.EntityId(dto.SourceEntityID),
		TargetEntityID:   ids.EntityId(dto.TargetEntityID),
		RelationshipType: valuemodel.RelationshipType(dto.RelationshipType),
		NameKey:          ids.TranslationKey(dto.NameKey),
		DescriptionKey:   ids.TranslationKey(dto.DescriptionKey),
		InverseNameKey:   ids.TranslationKey(dto.InverseNameKey),
	}
}

// asInt, asFloat, and asStringSlice tolerate the untyped numeric/slice
// shapes encoding/json produces when decoding into map[string]any
// (float64 for all JSON numbers, []any for arrays).
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
