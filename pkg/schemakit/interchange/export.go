package interchange

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/niiniyare/schemaforge/pkg/shared"
)

// ExportWarning is a non-fatal quality observation surfaced alongside a
// successful export.
type ExportWarning struct {
	Kind   string
	Detail string
}

// ExportResult carries the warnings produced by a successful export.
type ExportResult struct {
	Warnings []ExportWarning
}

// Export serializes schemaID, version, entities, and relationships to
// path as the stable schema JSON document. It refuses to
// overwrite an existing file and fails the hard invariant checks before
// writing anything.
func Export(path, schemaID, version string, entities []*aggregate.Entity, relationships []*aggregate.Relationship) (*ExportResult, error) {
	if err := checkHardInvariants(entities); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return nil, errors.ErrFileAlreadyExists
	} else if !os.IsNotExist(err) {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "stat export target", err)
	}

	exportedAt, err := shared.Now("UTC")
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "resolve export timestamp", err)
	}

	doc := SchemaDocument{SchemaID: schemaID, Version: version, ExportedAt: exportedAt.Format(shared.ISO8601)}
	for _, e := range entities {
		doc.Entities = append(doc.Entities, EntityFromDomain(e))
	}
	for _, r := range relationships {
		doc.Relationships = append(doc.Relationships, RelationshipFromDomain(r))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "create export parent directory", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.NewRepositoryError(errors.CodeJSONSyntax, "encode export document", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.NewRepositoryError(errors.CodeFileReadFailed, "write export file", err)
	}

	return &ExportResult{Warnings: qualityWarnings(entities)}, nil
}

// checkHardInvariants enforces the export preconditions: the schema must
// be non-empty (at least one entity with at least one field), and every
// translation-key field must be non-empty.
func checkHardInvariants(entities []*aggregate.Entity) error {
	hasField := false
	for _, e := range entities {
		if e.NameKey == "" {
			return errors.NewBusinessError("EMPTY_TRANSLATION_KEY", fmt.Sprintf("entity %q has an empty name_key", e.ID))
		}
		for _, f := range e.Fields() {
			hasField = true
			if f.LabelKey == "" {
				return errors.NewBusinessError("EMPTY_TRANSLATION_KEY", fmt.Sprintf("field %q on entity %q has an empty label_key", f.ID, e.ID))
			}
		}
	}
	if len(entities) == 0 || !hasField {
		return errors.ErrEmptySchema
	}
	return nil
}

// qualityWarnings enumerates the non-fatal observations: entities with
// zero fields, fields without help-text
// keys, and a count of the behavioral data export excludes by design.
func qualityWarnings(entities []*aggregate.Entity) []ExportWarning {
	var warnings []ExportWarning
	excludedCount := 0

	for _, e := range entities {
		if e.FieldCount() == 0 {
			warnings = append(warnings, ExportWarning{
				Kind:   "EMPTY_ENTITY",
				Detail: fmt.Sprintf("entity %q has no fields", e.ID),
			})
		}
		for _, f := range e.Fields() {
			if f.HelpTextKey == "" {
				warnings = append(warnings, ExportWarning{
					Kind:   "MISSING_HELP_TEXT",
					Detail: fmt.Sprintf("field %q on entity %q has no help_text_key", f.ID, e.ID),
				})
			}
			switch f.Type {
			case valuemodel.FieldTypeCalculated:
				excludedCount++
			case valuemodel.FieldTypeLookup:
				excludedCount++
			case valuemodel.FieldTypeTable:
				excludedCount++
			}
		}
	}

	if excludedCount > 0 {
		warnings = append(warnings, ExportWarning{
			Kind:   "EXCLUDED_BEHAVIORAL_DATA",
			Detail: fmt.Sprintf("%d formula/lookup/child-entity reference(s) excluded from the export", excludedCount),
		})
	}
	return warnings
}
