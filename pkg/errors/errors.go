// Package errors provides the error handling system shared across the
// schema kernel, repositories, and API layer.
//
// Key Features:
// - Rich error types with HTTP status, suggestions, and context
// - Predefined business errors for common schema-domain scenarios
// - Validation error collection and handling
// - Repository error wrapping for storage operations
// - HTTP error conversion for API responses
// - Context-aware error construction
//
// File Organization:
// - types.go: Core error types and interfaces
// - business.go: Predefined business errors and constructors
// - codes.go: Error code constants
// - context.go: Context helper functions
// - http.go: HTTP error handling
// - utils.go: Utility and checking functions
// - errors.go: Package documentation (this file)

package errors

// ─── PACKAGE DOCUMENTATION ─────────────────────────────────────────────

/*
Basic Usage:

	import "github.com/niiniyare/schemaforge/pkg/errors"

	// Check for specific errors
	if errors.IsEntityNotFound(err) {
		// Handle entity not found
	}

	// Use predefined errors
	return errors.ErrEntityNotFound

	// Create business errors with rich context
	return errors.NewBusinessError("CUSTOM_ERROR", "Custom message").
		WithHTTPStatus(http.StatusBadRequest).
		WithCategory(errors.CategoryBusiness).
		WithSuggestion("Try again later")

	// Handle validation errors
	var validationErrs errors.ValidationErrors
	validationErrs.Add("field_id", "Invalid value")
	return validationErrs

	// Convert to HTTP response
	httpErr := errors.ToHTTPError(err)
	w.WriteHeader(httpErr.Status)
	json.NewEncoder(w).Encode(httpErr)

Error Categories:

- CategoryValidation: field-level and request-level validation errors
- CategoryInvariant: broken schema invariants (duplicate id, dangling reference, ...)
- CategoryDependency: blocked delete due to outstanding referrers
- CategoryRepository: storage backend errors (memstore/filestore/s3store)
- CategoryBusiness: general business logic errors
- CategoryIntegration: external service errors
- CategorySystem: system/infrastructure errors

Error Severity Levels:

- SeverityInfo: Informational
- SeverityWarning: Warning level
- SeverityError: Error level
- SeverityCritical: Critical system errors

Predefined Errors:

Lookup Errors:
- ErrEntityNotFound, ErrFieldNotFound, ErrSchemaNotFound

Invariant Errors:
- ErrDuplicateID, ErrFieldTypeImmutable, ErrSelfReferentialLookup
- ErrConstraintOnCalculated, ErrDuplicateConstraintKind, ErrIncompatibleConstraintType
- ErrOrderingViolation, ErrDuplicateOptionValue, ErrInvalidPermutation, ErrDanglingReference

Dependency Errors:
- ErrEntityReferenced(entityID, referrers), ErrFieldReferenced(entityID, fieldID, referrers)

Import/Export Errors:
- ErrUnknownConstraint, ErrUnknownRuleType, ErrControlRuleInvalid
- ErrOutputMappingInvalid, ErrFileAlreadyExists, ErrEmptySchema
*/
