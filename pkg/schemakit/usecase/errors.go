package usecase

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// entityNotFound decorates ErrEntityNotFound with the id that was looked
// up, without mutating the shared package-level error value.
func entityNotFound(id ids.EntityId) error {
	return errors.NewBusinessError(errors.CodeEntityNotFound, "entity not found").
		WithCategory(errors.CategoryBusiness).
		WithDetail("entity_id", string(id))
}

// fieldNotFound decorates ErrFieldNotFound with the owning entity and
// field id that were looked up.
func fieldNotFound(entityID ids.EntityId, fieldID ids.FieldId) error {
	return errors.NewBusinessError(errors.CodeFieldNotFound, "field not found").
		WithCategory(errors.CategoryBusiness).
		WithDetail("entity_id", string(entityID)).
		WithDetail("field_id", string(fieldID))
}
