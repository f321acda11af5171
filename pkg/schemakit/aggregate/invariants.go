package aggregate

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// validateField enforces the per-type shape rules for a Field —
// uniqueness of option values, CALCULATED/LOOKUP/TABLE shape, constraint
// set legality — plus the cross-entity reference checks, resolved
// against view. owningEntityID is the entity the field belongs (or would
// belong) to.
func validateField(owningEntityID ids.EntityId, f *Field, view *SchemaView) error {
	switch f.Type {
	case valuemodel.FieldTypeCalculated:
		if f.Required {
			return errors.NewInvariantViolation("CALCULATED_REQUIRES_FALSE", "a CALCULATED field cannot be required")
		}
		if len(f.Constraints) > 0 {
			return errors.ErrConstraintOnCalculated
		}

	case valuemodel.FieldTypeLookup:
		if f.LookupEntityID == "" {
			return errors.NewInvariantViolation("LOOKUP_TARGET_REQUIRED", "a LOOKUP field must declare lookup_entity_id")
		}
		if f.LookupEntityID == owningEntityID {
			return errors.ErrSelfReferentialLookup
		}
		if !view.EntityExists(f.LookupEntityID) {
			return errors.ErrDanglingReference
		}
		if f.LookupDisplayField != "" && !view.IsDisplayableScalar(f.LookupEntityID, f.LookupDisplayField) {
			return errors.NewInvariantViolation("LOOKUP_DISPLAY_FIELD_INVALID",
				"lookup_display_field must refer to a displayable scalar field on the lookup entity")
		}

	case valuemodel.FieldTypeTable:
		if f.ChildEntityID == "" || !view.EntityExists(f.ChildEntityID) {
			return errors.ErrDanglingReference
		}
	}

	if f.Type.IsChoice() {
		seen := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			if seen[o.Value] {
				return errors.ErrDuplicateOptionValue
			}
			seen[o.Value] = true
		}
	}

	if err := constraint.ValidateSet(f.Type, f.Constraints); err != nil {
		return err
	}

	return nil
}
