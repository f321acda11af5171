// Package repository declares the storage contract the use-case layer
// depends on, plus the dependency-inspection helpers that guard entity
// and field deletion. Three interchangeable backends satisfy both
// interfaces: memstore (tests, ephemeral runs), filestore (local
// JSON-on-disk persistence), and s3store (object storage for deployed
// environments) — selected by configuration, never by call-site code.
package repository

import (
	"context"
	"strings"

	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// EntityRepository persists Entity aggregates one at a time.
// Save is insert-or-upsert-fields; Update replaces an existing entity
// as a whole, fields included, and fails with ErrEntityNotFound if it is
// absent; Delete cascades the entity's fields — callers enforce dependency safety
// beforehand via GetEntityDependencies/GetFieldDependencies.
type EntityRepository interface {
	Exists(ctx context.Context, id ids.EntityId) (bool, error)
	GetByID(ctx context.Context, id ids.EntityId) (*aggregate.Entity, error)
	GetAll(ctx context.Context) ([]*aggregate.Entity, error)
	Save(ctx context.Context, entity *aggregate.Entity) error
	Update(ctx context.Context, entity *aggregate.Entity) error
	Delete(ctx context.Context, id ids.EntityId) error
	GetEntityDependencies(ctx context.Context, id ids.EntityId) ([]EntityDependency, error)
	GetFieldDependencies(ctx context.Context, entityID ids.EntityId, fieldID ids.FieldId) ([]FieldDependency, error)
}

// RelationshipRepository persists Relationship records, mirroring
// EntityRepository's shape for the same three backends.
type RelationshipRepository interface {
	Exists(ctx context.Context, id ids.RelationshipId) (bool, error)
	GetByID(ctx context.Context, id ids.RelationshipId) (*aggregate.Relationship, error)
	GetAll(ctx context.Context) ([]*aggregate.Relationship, error)
	Save(ctx context.Context, rel *aggregate.Relationship) error
	Update(ctx context.Context, rel *aggregate.Relationship) error
	Delete(ctx context.Context, id ids.RelationshipId) error
}

// EntityDependency names one (entity_id, field_id) location that refers
// to a target entity, for "cannot delete: referenced by" reporting.
type EntityDependency struct {
	EntityID ids.EntityId
	FieldID  ids.FieldId
	Kind     string // "TABLE_CHILD", "LOOKUP_TARGET", "PARENT_ENTITY"
}

// FieldDependency names one location that refers to a field, for the
// field-deletion-safety check.
type FieldDependency struct {
	EntityID ids.EntityId
	FieldID  ids.FieldId
	Kind     string // "FORMULA_REFERENCE", "CONTROL_RULE_SOURCE", "CONTROL_RULE_TARGET", "OUTPUT_MAPPING_REFERENCE", "LOOKUP_DISPLAY_FIELD"
}

// ComputeEntityDependencies scans entities for every location that refers
// to target: a TABLE child_entity_id, a LOOKUP lookup_entity_id, or
// another entity's parent_entity_id. Backends call this over whatever
// full entity listing they hold, rather than each re-implementing the scan.
func ComputeEntityDependencies(entities []*aggregate.Entity, target ids.EntityId) []EntityDependency {
	var deps []EntityDependency
	for _, e := range entities {
		if e.ParentEntityID == target {
			deps = append(deps, EntityDependency{EntityID: e.ID, Kind: "PARENT_ENTITY"})
		}
		for _, f := range e.Fields() {
			switch {
			case f.Type == valuemodel.FieldTypeTable && f.ChildEntityID == target:
				deps = append(deps, EntityDependency{EntityID: e.ID, FieldID: f.ID, Kind: "TABLE_CHILD"})
			case f.Type == valuemodel.FieldTypeLookup && f.LookupEntityID == target:
				deps = append(deps, EntityDependency{EntityID: e.ID, FieldID: f.ID, Kind: "LOOKUP_TARGET"})
			}
		}
	}
	return deps
}

// ComputeFieldDependencies scans entities for every location that refers
// to (ownerID, target): a formula's {{field_id}} placeholder, a control
// rule's source or target, an output mapping's reference, or a LOOKUP's
// lookup_display_field.
func ComputeFieldDependencies(entities []*aggregate.Entity, ownerID ids.EntityId, target ids.FieldId) []FieldDependency {
	var deps []FieldDependency
	placeholder := "{{" + string(target) + "}}"

	owner := findEntity(entities, ownerID)
	if owner == nil {
		return nil
	}

	// Formula, control-rule, and output-mapping references are
	// entity-scoped, so only the owning entity's other fields can hold
	// them. References from the target field itself are deleted with it
	// and never block.
	for _, f := range owner.Fields() {
		if f.ID == target {
			continue
		}
		if f.Formula != "" && strings.Contains(f.Formula, placeholder) {
			deps = append(deps, FieldDependency{EntityID: owner.ID, FieldID: f.ID, Kind: "FORMULA_REFERENCE"})
		}
		for _, rule := range f.ControlRules {
			if strings.Contains(rule.FormulaText, placeholder) {
				deps = append(deps, FieldDependency{EntityID: owner.ID, FieldID: f.ID, Kind: "CONTROL_RULE_SOURCE"})
			}
			if rule.TargetFieldID == target {
				deps = append(deps, FieldDependency{EntityID: owner.ID, FieldID: f.ID, Kind: "CONTROL_RULE_TARGET"})
			}
		}
		for _, mapping := range f.OutputMappings {
			if strings.Contains(mapping.FormulaText, placeholder) {
				deps = append(deps, FieldDependency{EntityID: owner.ID, FieldID: f.ID, Kind: "OUTPUT_MAPPING_REFERENCE"})
			}
		}
	}

	// A LOOKUP's lookup_display_field names a field of lookup_entity_id,
	// so the referring field can live on any entity in the schema.
	for _, e := range entities {
		for _, f := range e.Fields() {
			if e.ID == ownerID && f.ID == target {
				continue
			}
			if f.Type == valuemodel.FieldTypeLookup && f.LookupEntityID == ownerID && f.LookupDisplayField == target {
				deps = append(deps, FieldDependency{EntityID: e.ID, FieldID: f.ID, Kind: "LOOKUP_DISPLAY_FIELD"})
			}
		}
	}
	return deps
}

func findEntity(entities []*aggregate.Entity, id ids.EntityId) *aggregate.Entity {
	for _, e := range entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}
