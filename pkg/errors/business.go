package errors

import (
	"fmt"
	"net/http"
)

// ─── PREDEFINED SCHEMA-DOMAIN ERRORS ─────────────────────────────────────────────

var (
	// ErrEntityNotFound indicates an entity id does not exist in the schema.
	ErrEntityNotFound = NewBusinessError(CodeEntityNotFound, "entity not found").
				WithHTTPStatus(http.StatusNotFound).
				WithCategory(CategoryBusiness).
				WithSuggestion("verify the entity id is correct")

	// ErrFieldNotFound indicates a field id does not exist on its owning entity.
	ErrFieldNotFound = NewBusinessError(CodeFieldNotFound, "field not found").
				WithHTTPStatus(http.StatusNotFound).
				WithCategory(CategoryBusiness).
				WithSuggestion("verify the field id and owning entity are correct")

	// ErrSchemaNotFound indicates a schema id has no persisted aggregate.
	ErrSchemaNotFound = NewBusinessError(CodeSchemaNotFound, "schema not found").
				WithHTTPStatus(http.StatusNotFound).
				WithCategory(CategoryBusiness)

	// ErrDuplicateID indicates an id collision within an entity or schema.
	ErrDuplicateID = NewInvariantViolation(CodeDuplicateID, "id already exists").
			WithHTTPStatus(http.StatusConflict)

	// ErrFieldTypeImmutable indicates an attempt to change a field's type
	// after creation.
	ErrFieldTypeImmutable = NewInvariantViolation(CodeFieldTypeImmutable, "field type cannot change after creation").
				WithHTTPStatus(http.StatusConflict)

	// ErrSelfReferentialLookup indicates a LOOKUP field referencing its
	// own owning entity.
	ErrSelfReferentialLookup = NewInvariantViolation(CodeSelfReferentialLookup, "lookup_entity_id must not equal the owning entity").
					WithHTTPStatus(http.StatusBadRequest)

	// ErrConstraintOnCalculated indicates an attempt to attach a
	// constraint to a CALCULATED field.
	ErrConstraintOnCalculated = NewInvariantViolation(CodeConstraintOnCalculated, "constraints cannot be attached to a CALCULATED field").
					WithHTTPStatus(http.StatusBadRequest)

	// ErrDuplicateConstraintKind indicates a second constraint of a kind
	// already present on the field.
	ErrDuplicateConstraintKind = NewInvariantViolation(CodeDuplicateConstraintKind, "a constraint of this kind already exists").
					WithHTTPStatus(http.StatusConflict)

	// ErrIncompatibleConstraintType indicates a constraint kind applied
	// to an incompatible field type.
	ErrIncompatibleConstraintType = NewInvariantViolation(CodeIncompatibleConstraint, "constraint kind is not compatible with this field type").
					WithHTTPStatus(http.StatusBadRequest)

	// ErrOrderingViolation indicates min > max across a MIN/MAX
	// constraint pair.
	ErrOrderingViolation = NewInvariantViolation(CodeOrderingViolation, "minimum must be less than or equal to maximum").
				WithHTTPStatus(http.StatusBadRequest)

	// ErrDuplicateOptionValue indicates two options on a choice field
	// share a value.
	ErrDuplicateOptionValue = NewInvariantViolation(CodeDuplicateOptionValue, "option values must be unique within a field").
				WithHTTPStatus(http.StatusBadRequest)

	// ErrInvalidPermutation indicates a reorder operation was given a
	// permutation with duplicates, omissions, or unknown values.
	ErrInvalidPermutation = NewInvariantViolation(CodeInvalidPermutation, "reorder permutation does not match the existing option set").
				WithHTTPStatus(http.StatusBadRequest)

	// ErrInvalidPatternRegex indicates a PATTERN constraint's Regex does
	// not compile.
	ErrInvalidPatternRegex = NewInvariantViolation(CodeInvalidPatternRegex, "pattern constraint regex does not compile").
				WithHTTPStatus(http.StatusBadRequest)

	// ErrDanglingReference indicates a relationship or LOOKUP/TABLE field
	// refers to a nonexistent entity.
	ErrDanglingReference = NewInvariantViolation(CodeDanglingReference, "referenced entity does not exist").
				WithHTTPStatus(http.StatusBadRequest)

	// ErrUnknownConstraint indicates an import encountered a
	// constraint_type outside the known set; imports fail rather than
	// silently dropping the constraint.
	ErrUnknownConstraint = NewBusinessError(CodeUnknownConstraint, "unknown constraint type").
				WithHTTPStatus(http.StatusBadRequest).
				WithCategory(CategoryValidation)

	// ErrUnknownRuleType indicates an import or control-rule command used
	// a rule_type outside {VISIBILITY, ENABLED, REQUIRED}.
	ErrUnknownRuleType = NewBusinessError(CodeUnknownRuleType, "unknown control rule type").
				WithHTTPStatus(http.StatusBadRequest).
				WithCategory(CategoryValidation)

	// ErrControlRuleInvalid indicates a control rule's formula governance
	// is INVALID or its inferred type is not BOOLEAN.
	ErrControlRuleInvalid = NewBusinessError(CodeControlRuleInvalid, "control rule formula is blocked").
				WithHTTPStatus(http.StatusBadRequest).
				WithCategory(CategoryValidation)

	// ErrOutputMappingInvalid indicates an output mapping failed its
	// structural re-validation during import.
	ErrOutputMappingInvalid = NewBusinessError(CodeOutputMappingInvalid, "output mapping is structurally invalid").
				WithHTTPStatus(http.StatusBadRequest).
				WithCategory(CategoryValidation)

	// ErrFileAlreadyExists indicates export refused to overwrite an
	// existing target file.
	ErrFileAlreadyExists = NewBusinessError(CodeFileAlreadyExists, "target file already exists").
				WithHTTPStatus(http.StatusConflict).
				WithCategory(CategoryRepository)

	// ErrEmptySchema indicates export's hard invariant that the schema
	// must contain at least one entity with at least one field.
	ErrEmptySchema = NewBusinessError("EMPTY_SCHEMA", "schema must contain at least one entity with at least one field").
			WithHTTPStatus(http.StatusBadRequest).
			WithCategory(CategoryValidation)
)

// ErrEntityReferenced builds the "cannot delete entity" dependency error,
// naming every referring (entity_id, field_id) pair.
func ErrEntityReferenced(entityID string, referrers []string) *BusinessError {
	return NewDependencyError(CodeEntityReferenced,
		fmt.Sprintf("cannot delete entity %q: referenced by %d field(s)", entityID, len(referrers)),
		referrers)
}

// ErrFieldReferenced builds the "cannot delete field" dependency error,
// naming every referring location.
func ErrFieldReferenced(entityID, fieldID string, referrers []string) *BusinessError {
	return NewDependencyError(CodeFieldReferenced,
		fmt.Sprintf("cannot delete field %q on entity %q: referenced by %d location(s)", fieldID, entityID, len(referrers)),
		referrers)
}
