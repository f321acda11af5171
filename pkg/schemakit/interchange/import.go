package interchange

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/controlrule"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// ImportResult is the outcome of a successful import.
type ImportResult struct {
	Schema   *aggregate.Schema
	Warnings []string // non-blocking, e.g. "entity X has zero fields"
}

// Import runs the three-layer pipeline, short circuiting at the first
// layer that fails: L1 file/JSON, L2 structure, L3 domain conversion
// (including in-context control-rule and output-mapping re-validation).
func Import(path string) (*ImportResult, error) {
	doc, err := importL1(path)
	if err != nil {
		return nil, err
	}
	if err := importL2(doc); err != nil {
		return nil, err
	}
	return importL3(doc)
}

// importL1 loads path and parses it as JSON.
func importL1(path string) (*SchemaDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBusinessError(errors.CodeFileNotFound, fmt.Sprintf("import file %q does not exist", path))
		}
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "read import file", err)
	}
	var doc SchemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewRepositoryError(errors.CodeJSONSyntax, "parse import JSON", err)
	}
	return &doc, nil
}

// importL2 enforces the structural requirements of layer 2, collecting
// every violation before returning so callers see the full list at once.
func importL2(doc *SchemaDocument) error {
	var verrs errors.ValidationErrors

	if doc.SchemaID == "" {
		verrs.AddWithCode("schema_id", "schema_id is required and must be non-empty", errors.CodeMissingRequired)
	}
	if doc.Entities == nil {
		verrs.AddWithCode("entities", "entities is required", errors.CodeMissingRequired)
	}

	entityIDs := make(map[string]bool, len(doc.Entities))
	for i, e := range doc.Entities {
		path := fmt.Sprintf("entities[%d]", i)
		if e.ID == "" {
			verrs.AddAt(path, "id", "entity id is required", errors.CodeMissingRequired)
		} else {
			entityIDs[e.ID] = true
		}
		if e.NameKey == "" {
			verrs.AddAt(path, "name_key", "entity name_key is required", errors.CodeMissingRequired)
		}
		if e.Fields == nil {
			verrs.AddAt(path, "fields", "entity fields is required", errors.CodeMissingRequired)
		}
		for j, f := range e.Fields {
			fpath := fmt.Sprintf("%s.fields[%d]", path, j)
			if f.ID == "" {
				verrs.AddAt(fpath, "id", "field id is required", errors.CodeMissingRequired)
			}
			if !valuemodel.FieldType(f.FieldType).IsValid() {
				verrs.AddAt(fpath, "field_type", fmt.Sprintf("unknown field_type %q", f.FieldType), errors.CodeInvalidType)
			}
			if f.LabelKey == "" {
				verrs.AddAt(fpath, "label_key", "field label_key is required", errors.CodeMissingRequired)
			}
			for k, c := range f.Constraints {
				if !knownConstraintType(c.ConstraintType) {
					verrs.AddAt(fmt.Sprintf("%s.constraints[%d]", fpath, k), "constraint_type",
						fmt.Sprintf("unknown constraint_type %q", c.ConstraintType), errors.CodeUnknownConstraint)
				}
			}
		}
	}

	for i, rel := range doc.Relationships {
		path := fmt.Sprintf("relationships[%d]", i)
		if !entityIDs[rel.SourceEntityID] {
			verrs.AddAt(path, "source_entity_id", fmt.Sprintf("source_entity_id %q does not appear in entities", rel.SourceEntityID), errors.CodeInvalidReference)
		}
		if !entityIDs[rel.TargetEntityID] {
			verrs.AddAt(path, "target_entity_id", fmt.Sprintf("target_entity_id %q does not appear in entities", rel.TargetEntityID), errors.CodeInvalidReference)
		}
	}

	if verrs.HasErrors() {
		return verrs
	}
	return nil
}

func knownConstraintType(t string) bool {
	switch constraint.Kind(t) {
	case constraint.KindRequired, constraint.KindMinLength, constraint.KindMaxLength,
		constraint.KindMinValue, constraint.KindMaxValue, constraint.KindPattern,
		constraint.KindAllowedValues, constraint.KindFileExtension, constraint.KindMaxFileSize:
		return true
	default:
		return false
	}
}

// importL3 converts doc into a Schema, re-validating every field's
// constraint set, every control rule in context against a SchemaView
// built from the fully-converted entity set, and every output mapping
// structurally. The per-type field-shape rules AddField enforces are not
// re-run here.
func importL3(doc *SchemaDocument) (*ImportResult, error) {
	ec := errors.NewErrorCollection("import")

	entities := make([]*aggregate.Entity, 0, len(doc.Entities))
	for _, eDTO := range doc.Entities {
		entities = append(entities, eDTO.ToDomain())
	}
	view := aggregate.NewSchemaView(entities)

	var warnings []string
	for _, e := range entities {
		if e.FieldCount() == 0 {
			warnings = append(warnings, fmt.Sprintf("entity %q has zero fields", e.ID))
		}
		for _, f := range e.Fields() {
			if err := constraint.ValidateSet(f.Type, f.Constraints); err != nil {
				ec.Add(fmt.Errorf("entity %q field %q: %w", e.ID, f.ID, err))
			}
			fs := view.FieldSet(e.ID)
			// Known rule types and targets iterate in declaration order so
			// collected errors come out the same way every run; a key
			// outside the closed set is rejected by the map passes below.
			for _, rt := range []valuemodel.ControlRuleType{valuemodel.ControlRuleVisibility, valuemodel.ControlRuleEnabled, valuemodel.ControlRuleRequired} {
				rule, ok := f.ControlRules[rt]
				if !ok {
					continue
				}
				result := controlrule.Validate(rule.FormulaText, fs)
				if result.IsBlocked() {
					ec.Add(errors.NewBusinessError(errors.CodeControlRuleInvalid, "control rule formula is blocked").
						WithCategory(errors.CategoryValidation).
						WithSuggestion(result.BlockReason))
				}
			}
			for rt := range f.ControlRules {
				if !rt.IsValid() {
					ec.Add(errors.ErrUnknownRuleType)
				}
			}
			for _, target := range []valuemodel.OutputTarget{valuemodel.OutputTargetText, valuemodel.OutputTargetNumber, valuemodel.OutputTargetBoolean} {
				mapping, ok := f.OutputMappings[target]
				if !ok {
					continue
				}
				if mapping.FormulaText == "" {
					ec.Add(errors.ErrOutputMappingInvalid)
				}
			}
			for target := range f.OutputMappings {
				if !target.IsValid() {
					ec.Add(errors.ErrOutputMappingInvalid)
				}
			}
		}
	}

	if ec.HasErrors() {
		return nil, ec
	}

	schemaID, err := ids.NewSchemaId(doc.SchemaID)
	if err != nil {
		return nil, errors.NewBusinessError(errors.CodeMissingRequired, err.Error())
	}
	schema := aggregate.NewSchema(schemaID)
	schema.Version = doc.Version
	for _, e := range entities {
		if addErr := schema.AddEntity(e); addErr != nil {
			return nil, addErr
		}
	}
	for _, relDTO := range doc.Relationships {
		if addErr := schema.AddRelationship(relDTO.ToDomain()); addErr != nil {
			return nil, addErr
		}
	}

	return &ImportResult{Schema: schema, Warnings: warnings}, nil
}
