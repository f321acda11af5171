package errors

// ─── ERROR CODES ─────────────────────────────────────────────

// Entity/Field lookup codes.
const (
	CodeEntityNotFound       = "ENTITY_NOT_FOUND"
	CodeFieldNotFound        = "FIELD_NOT_FOUND"
	CodeRelationshipNotFound = "RELATIONSHIP_NOT_FOUND"
	CodeSchemaNotFound       = "SCHEMA_NOT_FOUND"
	CodeDuplicateID          = "DUPLICATE_ID"
)

// Validation error codes (: user-facing validation errors).
const (
	CodeInvalidValue         = "INVALID_VALUE"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMissingRequired      = "MISSING_REQUIRED"
	CodeInvalidReference     = "INVALID_REFERENCE"
	CodeUnknownConstraint    = "UNKNOWN_CONSTRAINT"
	CodeUnknownRuleType      = "UNKNOWN_RULE_TYPE"
	CodeControlRuleInvalid   = "CONTROL_RULE_INVALID"
	CodeOutputMappingInvalid = "OUTPUT_MAPPING_INVALID"
)

// Invariant violation codes.
const (
	CodeSelfReferentialLookup   = "SELF_REFERENTIAL_LOOKUP"
	CodeConstraintOnCalculated  = "CONSTRAINT_ON_CALCULATED"
	CodeDuplicateConstraintKind = "DUPLICATE_CONSTRAINT_KIND"
	CodeIncompatibleConstraint  = "INCOMPATIBLE_CONSTRAINT_TYPE"
	CodeOrderingViolation       = "ORDERING_VIOLATION"
	CodeDuplicateOptionValue    = "DUPLICATE_OPTION_VALUE"
	CodeDanglingReference       = "DANGLING_REFERENCE"
	CodeFieldTypeImmutable      = "FIELD_TYPE_IMMUTABLE"
	CodeInvalidPermutation      = "INVALID_PERMUTATION"
	CodeInvalidPatternRegex     = "INVALID_PATTERN_REGEX"
)

// Dependency error codes.
const (
	CodeEntityReferenced = "ENTITY_REFERENCED"
	CodeFieldReferenced  = "FIELD_REFERENCED"
)

// Infrastructure error codes.
const (
	CodeFileNotFound      = "FILE_NOT_FOUND"
	CodeFileReadFailed    = "FILE_READ_FAILED"
	CodeFileAlreadyExists = "FILE_ALREADY_EXISTS"
	CodeJSONSyntax        = "JSON_SYNTAX"
	CodeRepositoryError   = "REPOSITORY_ERROR"
)

// General error codes.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeUnknownError     = "UNKNOWN_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeMultipleErrors   = "MULTIPLE_ERRORS"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// HTTP error codes (for internal mapping).
const (
	CodeHTTPBadRequest          = "BAD_REQUEST"
	CodeHTTPNotFound            = "NOT_FOUND"
	CodeHTTPConflict            = "CONFLICT"
	CodeHTTPInternalServerError = "INTERNAL_SERVER_ERROR"
)

// System error codes.
const (
	CodeInternalPanic = "INTERNAL_PANIC"
	CodeConfigError   = "CONFIG_ERROR"
	CodeStartupError  = "STARTUP_ERROR"
	CodeShutdownError = "SHUTDOWN_ERROR"
)
