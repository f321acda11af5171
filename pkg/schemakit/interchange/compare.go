package interchange

import (
	"fmt"

	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// ChangeKind is the closed set of structural differences Compare detects.
// Rename is never one of them: a rename surfaces as a
// remove paired with an add.
type ChangeKind string

const (
	ChangeEntityAdded          ChangeKind = "ENTITY_ADDED"
	ChangeEntityRemoved        ChangeKind = "ENTITY_REMOVED"
	ChangeFieldAdded           ChangeKind = "FIELD_ADDED"
	ChangeFieldRemoved         ChangeKind = "FIELD_REMOVED"
	ChangeFieldTypeChanged     ChangeKind = "FIELD_TYPE_CHANGED"
	ChangeFieldRequiredChanged ChangeKind = "FIELD_REQUIRED_CHANGED"
	ChangeConstraintAdded      ChangeKind = "CONSTRAINT_ADDED"
	ChangeConstraintRemoved    ChangeKind = "CONSTRAINT_REMOVED"
	ChangeConstraintModified   ChangeKind = "CONSTRAINT_MODIFIED"
	ChangeOptionAdded          ChangeKind = "OPTION_ADDED"
	ChangeOptionRemoved        ChangeKind = "OPTION_REMOVED"
)

// breaking is the closed subset of ChangeKinds that make target
// incompatible with source.
var breaking = map[ChangeKind]bool{
	ChangeEntityRemoved:    true,
	ChangeFieldRemoved:     true,
	ChangeFieldTypeChanged: true,
	ChangeOptionRemoved:    true,
}

// additive marks the non-breaking kinds that grow the schema's shape —
// the entity, field, or option set. The remaining non-breaking kinds
// (constraint add/remove/modify, a required-flag flip) are
// property-level edits on an existing field and only warrant a patch
// bump.
var additive = map[ChangeKind]bool{
	ChangeEntityAdded: true,
	ChangeFieldAdded:  true,
	ChangeOptionAdded: true,
}

// SchemaChange is one detected structural difference, located by entity
// and (if applicable) field id.
type SchemaChange struct {
	Kind     ChangeKind
	EntityID string
	FieldID  string
	Detail   string
}

// IsBreaking reports whether c belongs to the breaking subset.
func (c SchemaChange) IsBreaking() bool { return breaking[c.Kind] }

// Verdict is the informational compatibility classification of a Compare
// result. Callers never block on it.
type Verdict string

const (
	VerdictIdentical    Verdict = "IDENTICAL"
	VerdictCompatible   Verdict = "COMPATIBLE"
	VerdictIncompatible Verdict = "INCOMPATIBLE"
)

// CompareResult is the outcome of Compare: the ordered change list, its
// compatibility verdict, and a suggested semantic-version bump.
type CompareResult struct {
	Changes       []SchemaChange
	Verdict       Verdict
	SuggestedBump Version
}

// Version is a parsed MAJOR.MINOR.PATCH semantic version.
type Version struct {
	Major, Minor, Patch int
}

// String renders v as "MAJOR.MINOR.PATCH".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare produces a structural diff of source against target — entity
// and field shape only; translation keys, default values, help keys, and
// description keys are ignored.
func Compare(current Version, source, target []*aggregate.Entity) CompareResult {
	var changes []SchemaChange

	srcByID := entitiesByID(source)
	tgtByID := entitiesByID(target)

	// Iterate the slices, not the lookup maps, so the change list comes
	// out in the same order for the same input every time.
	for _, se := range source {
		te, ok := tgtByID[se.ID]
		if !ok {
			changes = append(changes, SchemaChange{Kind: ChangeEntityRemoved, EntityID: string(se.ID), Detail: "entity removed"})
		} else {
			changes = append(changes, compareFields(string(se.ID), se, te)...)
		}
	}
	for _, te := range target {
		if _, ok := srcByID[te.ID]; !ok {
			changes = append(changes, SchemaChange{Kind: ChangeEntityAdded, EntityID: string(te.ID), Detail: "entity added"})
		}
	}

	return CompareResult{
		Changes:       changes,
		Verdict:       classify(changes),
		SuggestedBump: bump(current, changes),
	}
}

func compareFields(entityID string, src, tgt *aggregate.Entity) []SchemaChange {
	var changes []SchemaChange

	srcFields := fieldsByID(src)
	tgtFields := fieldsByID(tgt)

	for _, sf := range src.Fields() {
		tf, ok := tgtFields[sf.ID]
		if !ok {
			changes = append(changes, SchemaChange{Kind: ChangeFieldRemoved, EntityID: entityID, FieldID: string(sf.ID), Detail: "field removed"})
			continue
		}
		if sf.Type != tf.Type {
			changes = append(changes, SchemaChange{
				Kind: ChangeFieldTypeChanged, EntityID: entityID, FieldID: string(sf.ID),
				Detail: fmt.Sprintf("type changed from %s to %s", sf.Type, tf.Type),
			})
		}
		if sf.Required != tf.Required {
			changes = append(changes, SchemaChange{
				Kind: ChangeFieldRequiredChanged, EntityID: entityID, FieldID: string(sf.ID),
				Detail: fmt.Sprintf("required changed from %v to %v", sf.Required, tf.Required),
			})
		}
		changes = append(changes, compareConstraints(entityID, string(sf.ID), sf, tf)...)
		changes = append(changes, compareOptions(entityID, string(sf.ID), sf, tf)...)
	}
	for _, tf := range tgt.Fields() {
		if _, ok := srcFields[tf.ID]; !ok {
			changes = append(changes, SchemaChange{Kind: ChangeFieldAdded, EntityID: entityID, FieldID: string(tf.ID), Detail: "field added"})
		}
	}
	return changes
}

func compareConstraints(entityID, fieldID string, sf, tf *aggregate.Field) []SchemaChange {
	var changes []SchemaChange
	srcByKind := make(map[string]any, len(sf.Constraints))
	for _, c := range sf.Constraints {
		srcByKind[string(c.Kind())] = c
	}
	tgtByKind := make(map[string]any, len(tf.Constraints))
	for _, c := range tf.Constraints {
		tgtByKind[string(c.Kind())] = c
	}
	for _, sc := range sf.Constraints {
		kind := string(sc.Kind())
		tc, ok := tgtByKind[kind]
		if !ok {
			changes = append(changes, SchemaChange{Kind: ChangeConstraintRemoved, EntityID: entityID, FieldID: fieldID, Detail: kind + " removed"})
			continue
		}
		if fmt.Sprintf("%+v", sc) != fmt.Sprintf("%+v", tc) {
			changes = append(changes, SchemaChange{Kind: ChangeConstraintModified, EntityID: entityID, FieldID: fieldID, Detail: kind + " modified"})
		}
	}
	for _, tc := range tf.Constraints {
		if _, ok := srcByKind[string(tc.Kind())]; !ok {
			changes = append(changes, SchemaChange{Kind: ChangeConstraintAdded, EntityID: entityID, FieldID: fieldID, Detail: string(tc.Kind()) + " added"})
		}
	}
	return changes
}

func compareOptions(entityID, fieldID string, sf, tf *aggregate.Field) []SchemaChange {
	var changes []SchemaChange
	srcValues := make(map[string]bool, len(sf.Options))
	for _, o := range sf.Options {
		srcValues[o.Value] = true
	}
	tgtValues := make(map[string]bool, len(tf.Options))
	for _, o := range tf.Options {
		tgtValues[o.Value] = true
	}
	for _, o := range sf.Options {
		if !tgtValues[o.Value] {
			changes = append(changes, SchemaChange{Kind: ChangeOptionRemoved, EntityID: entityID, FieldID: fieldID, Detail: "option " + o.Value + " removed"})
		}
	}
	for _, o := range tf.Options {
		if !srcValues[o.Value] {
			changes = append(changes, SchemaChange{Kind: ChangeOptionAdded, EntityID: entityID, FieldID: fieldID, Detail: "option " + o.Value + " added"})
		}
	}
	return changes
}

func classify(changes []SchemaChange) Verdict {
	if len(changes) == 0 {
		return VerdictIdentical
	}
	for _, c := range changes {
		if c.IsBreaking() {
			return VerdictIncompatible
		}
	}
	return VerdictCompatible
}

// bump suggests the next semantic version for target given current and
// the detected changes: any breaking change forces a major bump, any
// additive shape change a minor bump, and property-level edits (the
// only kinds left) a patch bump.
func bump(current Version, changes []SchemaChange) Version {
	if len(changes) == 0 {
		return current
	}
	hasAdditive := false
	for _, c := range changes {
		if c.IsBreaking() {
			return Version{Major: current.Major + 1, Minor: 0, Patch: 0}
		}
		if additive[c.Kind] {
			hasAdditive = true
		}
	}
	if hasAdditive {
		return Version{Major: current.Major, Minor: current.Minor + 1, Patch: 0}
	}
	return Version{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}
}

func entitiesByID(entities []*aggregate.Entity) map[ids.EntityId]*aggregate.Entity {
	m := make(map[ids.EntityId]*aggregate.Entity, len(entities))
	for _, e := range entities {
		m[e.ID] = e
	}
	return m
}

func fieldsByID(e *aggregate.Entity) map[ids.FieldId]*aggregate.Field {
	m := make(map[ids.FieldId]*aggregate.Field, e.FieldCount())
	for _, f := range e.Fields() {
		m[f.ID] = f
	}
	return m
}
