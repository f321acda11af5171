package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ─── ERROR TYPE CHECKING HELPERS ─────────────────────────────────────────────

// IsEntityNotFound checks if error is entity not found
func IsEntityNotFound(err error) bool {
	return IsBusinessErrorCode(err, CodeEntityNotFound)
}

// IsFieldNotFound checks if error is field not found
func IsFieldNotFound(err error) bool {
	return IsBusinessErrorCode(err, CodeFieldNotFound)
}

// IsConflict checks if error is a conflict (duplicate) error
func IsConflict(err error) bool {
	conflictCodes := []string{
		CodeDuplicateID, CodeDuplicateConstraintKind, CodeDuplicateOptionValue,
		CodeFileAlreadyExists, CodeFieldTypeImmutable,
	}

	for _, code := range conflictCodes {
		if IsBusinessErrorCode(err, code) {
			return true
		}
	}
	return false
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	if _, ok := err.(ValidationErrors); ok {
		return true
	}
	if _, ok := err.(ValidationError); ok {
		return true
	}
	if be, ok := err.(*BusinessError); ok {
		return be.Category == CategoryValidation
	}
	return false
}

// IsTemporaryError checks if error is temporary/retryable
func IsTemporaryError(err error) bool {
	return IsTemporary(err)
}

// ─── MIGRATION HELPERS ─────────────────────────────────────────────
// These help migrate from simple errors to enhanced errors

// WrapSimpleError wraps a simple error with enhanced context
func WrapSimpleError(simpleErr error, code string, httpStatus int) *BusinessError {
	return NewBusinessError(code, simpleErr.Error()).
		WithHTTPStatus(httpStatus).
		WithDetail("original_error", simpleErr.Error())
}

// UpgradeError upgrades a simple error to enhanced error if possible
func UpgradeError(err error) error {
	if err == nil {
		return nil
	}

	// Already enhanced
	if _, ok := err.(*BusinessError); ok {
		return err
	}
	if _, ok := err.(*RepositoryError); ok {
		return err
	}
	if _, ok := err.(ValidationErrors); ok {
		return err
	}

	// Map common simple errors to enhanced ones
	errMsg := err.Error()
	switch errMsg {
	case "entity not found":
		return ErrEntityNotFound
	case "field not found":
		return ErrFieldNotFound
	case "schema not found":
		return ErrSchemaNotFound
	case "duplicate id":
		return ErrDuplicateID
	default:
		// Generic upgrade
		return WrapSimpleError(err, CodeUnknownError, http.StatusInternalServerError)
	}
}

// ─── ERROR CATEGORIZATION HELPERS ─────────────────────────────────────────────

// GetErrorsByCategory returns all errors of a specific category from a collection
func GetErrorsByCategory(errs []error, category Category) []*BusinessError {
	var businessErrors []*BusinessError
	for _, err := range errs {
		if be, ok := err.(*BusinessError); ok && be.Category == category {
			businessErrors = append(businessErrors, be)
		}
	}
	return businessErrors
}

// HasCriticalErrors checks if any errors have critical severity
func HasCriticalErrors(errs []error) bool {
	for _, err := range errs {
		if be, ok := err.(*BusinessError); ok && be.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// GetMaxSeverity returns the highest severity level from a collection of errors
func GetMaxSeverity(errs []error) Severity {
	maxSeverity := SeverityInfo

	for _, err := range errs {
		if be, ok := err.(*BusinessError); ok {
			switch be.Severity {
			case SeverityCritical:
				return SeverityCritical // Critical is highest, return immediately
			case SeverityError:
				if maxSeverity != SeverityCritical {
					maxSeverity = SeverityError
				}
			case SeverityWarning:
				if maxSeverity == SeverityInfo {
					maxSeverity = SeverityWarning
				}
			}
		}
	}

	return maxSeverity
}

// ─── ERROR FILTERING HELPERS ─────────────────────────────────────────────

// FilterRetryableErrors returns only retryable errors from a collection
func FilterRetryableErrors(errs []error) []error {
	var retryable []error
	for _, err := range errs {
		if IsTemporary(err) {
			retryable = append(retryable, err)
		}
	}
	return retryable
}

// FilterNonRetryableErrors returns only non-retryable errors from a collection
func FilterNonRetryableErrors(errs []error) []error {
	var nonRetryable []error
	for _, err := range errs {
		if !IsTemporary(err) {
			nonRetryable = append(nonRetryable, err)
		}
	}
	return nonRetryable
}

// ─── ERROR FORMATTING HELPERS ─────────────────────────────────────────────

// FormatErrorCodes returns a comma-separated list of error codes
func FormatErrorCodes(errs []error) string {
	var codes []string
	seen := make(map[string]bool)

	for _, err := range errs {
		code := GetErrorCode(err)
		if !seen[code] {
			codes = append(codes, code)
			seen[code] = true
		}
	}

	return strings.Join(codes, ", ")
}

// FormatErrorMessages returns a formatted string of error messages
func FormatErrorMessages(errs []error, separator string) string {
	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, separator)
}

// ─── BUSINESS LOGIC HELPERS ─────────────────────────────────────────────

// IsNotFoundError checks if error represents any type of "not found" condition
func IsNotFoundError(err error) bool {
	notFoundCodes := []string{
		CodeEntityNotFound, CodeFieldNotFound, CodeRelationshipNotFound,
		CodeSchemaNotFound, CodeNotFound,
	}

	for _, code := range notFoundCodes {
		if IsBusinessErrorCode(err, code) {
			return true
		}
	}
	return false
}

// IsInvariantViolation checks if error represents a broken schema invariant.
func IsInvariantViolation(err error) bool {
	if be, ok := err.(*BusinessError); ok {
		return be.Category == CategoryInvariant
	}
	return false
}

// IsDependencyError checks if error represents a blocked delete due to
// outstanding referrers.
func IsDependencyError(err error) bool {
	if be, ok := err.(*BusinessError); ok {
		return be.Category == CategoryDependency
	}
	return false
}

// ─── DEBUGGING HELPERS ─────────────────────────────────────────────

// GetErrorSummary returns a structured summary of an error for debugging
func GetErrorSummary(err error) map[string]any {
	summary := map[string]any{
		"type":    fmt.Sprintf("%T", err),
		"message": err.Error(),
		"code":    GetErrorCode(err),
		"status":  GetHTTPStatus(err),
	}

	switch e := err.(type) {
	case *BusinessError:
		summary["category"] = e.Category
		summary["severity"] = e.Severity
		summary["retryable"] = e.Retryable
		summary["path"] = e.Path
		summary["details"] = e.Details
		summary["suggestions"] = e.Suggestions

	case *RepositoryError:
		summary["operation"] = e.Operation
		summary["resource"] = e.Resource
		summary["details"] = e.Details

	case ValidationErrors:
		summary["field_count"] = len(e)
		summary["fields"] = e.ToMap()

	case ValidationError:
		summary["field"] = e.Field
		summary["value"] = e.Value
	}

	return summary
}

// GetErrorChain returns the chain of wrapped errors
func GetErrorChain(err error) []string {
	var chain []string
	current := err

	for current != nil {
		chain = append(chain, current.Error())
		current = errors.Unwrap(current)
	}

	return chain
}
