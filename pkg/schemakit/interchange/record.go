package interchange

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// EntityRecord is the full-fidelity storage shape the filestore and
// s3store repository backends persist. The export document intentionally
// omits the behavioral links — formula, lookup target and display field,
// child entity, parent entity — but a repository must not: an aggregate
// reloaded from storage has to come back exactly as it was saved.
type EntityRecord struct {
	ID             string        `json:"id"`
	NameKey        string        `json:"name_key"`
	DescriptionKey string        `json:"description_key,omitempty"`
	IsRootEntity   bool          `json:"is_root_entity"`
	ParentEntityID string        `json:"parent_entity_id,omitempty"`
	Fields         []FieldRecord `json:"fields"`
}

// FieldRecord is FieldDTO plus the behavioral columns the export format
// excludes.
type FieldRecord struct {
	FieldDTO
	Formula            string `json:"formula,omitempty"`
	LookupEntityID     string `json:"lookup_entity_id,omitempty"`
	LookupDisplayField string `json:"lookup_display_field,omitempty"`
	ChildEntityID      string `json:"child_entity_id,omitempty"`
}

// EntityRecordFromDomain converts e into its storage shape, preserving
// every attribute the aggregate carries.
func EntityRecordFromDomain(e *aggregate.Entity) EntityRecord {
	fields := e.Fields()
	rec := EntityRecord{
		ID:             string(e.ID),
		NameKey:        string(e.NameKey),
		DescriptionKey: string(e.DescriptionKey),
		IsRootEntity:   e.IsRootEntity,
		ParentEntityID: string(e.ParentEntityID),
		Fields:         make([]FieldRecord, 0, len(fields)),
	}
	for _, f := range fields {
		rec.Fields = append(rec.Fields, FieldRecord{
			FieldDTO:           fieldFromDomain(f),
			Formula:            f.Formula,
			LookupEntityID:     string(f.LookupEntityID),
			LookupDisplayField: string(f.LookupDisplayField),
			ChildEntityID:      string(f.ChildEntityID),
		})
	}
	return rec
}

// ToDomain converts rec back into an Entity. Like EntityDTO.ToDomain it
// installs fields without re-validation; the data was validated when it
// was saved, and the bootstrap sanitizer handles anything that has since
// gone corrupt.
func (rec EntityRecord) ToDomain() *aggregate.Entity {
	e := aggregate.NewEntity(ids.EntityId(rec.ID), ids.TranslationKey(rec.NameKey), rec.IsRootEntity)
	e.DescriptionKey = ids.TranslationKey(rec.DescriptionKey)
	e.ParentEntityID = ids.EntityId(rec.ParentEntityID)
	for _, fr := range rec.Fields {
		f := fr.FieldDTO.toDomain()
		f.Formula = fr.Formula
		f.LookupEntityID = ids.EntityId(fr.LookupEntityID)
		f.LookupDisplayField = ids.FieldId(fr.LookupDisplayField)
		f.ChildEntityID = ids.EntityId(fr.ChildEntityID)
		e.UnsafeSetField(f)
	}
	return e
}
