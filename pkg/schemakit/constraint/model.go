// Package constraint defines the nine constraint variants a Field may carry
// and the service that applies them with cross-constraint semantic checks.
package constraint

import "github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"

// Kind is the closed set of constraint variants.
type Kind string

const (
	KindRequired      Kind = "REQUIRED"
	KindMinLength     Kind = "MIN_LENGTH"
	KindMaxLength     Kind = "MAX_LENGTH"
	KindMinValue      Kind = "MIN_VALUE"
	KindMaxValue      Kind = "MAX_VALUE"
	KindPattern       Kind = "PATTERN"
	KindAllowedValues Kind = "ALLOWED_VALUES"
	KindFileExtension Kind = "FILE_EXTENSION"
	KindMaxFileSize   Kind = "MAX_FILE_SIZE"
)

// Constraint is the tagged-variant interface implemented by each constraint
// kind. Match-style dispatch (a type switch on the concrete type) replaces
// class-hierarchy dispatch.
type Constraint interface {
	Kind() Kind
	Severity() valuemodel.Severity
}

// base carries the severity shared by every variant.
type base struct {
	Sev valuemodel.Severity
}

func (b base) Severity() valuemodel.Severity { return b.Sev }

// Required requires a non-empty value (or true, for CHECKBOX fields).
type Required struct {
	base
}

func (Required) Kind() Kind { return KindRequired }

// NewRequired builds a Required constraint with the given severity.
func NewRequired(sev valuemodel.Severity) Required {
	return Required{base{Sev: sev}}
}

// MinLength requires a text value's length to be >= N.
type MinLength struct {
	base
	N int
}

func (MinLength) Kind() Kind { return KindMinLength }

// NewMinLength builds a MinLength constraint.
func NewMinLength(n int, sev valuemodel.Severity) MinLength {
	return MinLength{base{Sev: sev}, n}
}

// MaxLength requires a text value's length to be <= N.
type MaxLength struct {
	base
	N int
}

func (MaxLength) Kind() Kind { return KindMaxLength }

// NewMaxLength builds a MaxLength constraint.
func NewMaxLength(n int, sev valuemodel.Severity) MaxLength {
	return MaxLength{base{Sev: sev}, n}
}

// MinValue requires a numeric/date value to be >= X.
type MinValue struct {
	base
	X float64
}

func (MinValue) Kind() Kind { return KindMinValue }

// NewMinValue builds a MinValue constraint.
func NewMinValue(x float64, sev valuemodel.Severity) MinValue {
	return MinValue{base{Sev: sev}, x}
}

// MaxValue requires a numeric/date value to be <= X.
type MaxValue struct {
	base
	X float64
}

func (MaxValue) Kind() Kind { return KindMaxValue }

// NewMaxValue builds a MaxValue constraint.
func NewMaxValue(x float64, sev valuemodel.Severity) MaxValue {
	return MaxValue{base{Sev: sev}, x}
}

// Pattern requires a text value to match a regular expression.
type Pattern struct {
	base
	Regex       string
	Description string
}

func (Pattern) Kind() Kind { return KindPattern }

// NewPattern builds a Pattern constraint.
func NewPattern(regex, description string, sev valuemodel.Severity) Pattern {
	return Pattern{base{Sev: sev}, regex, description}
}

// AllowedValues restricts a value to a fixed set.
type AllowedValues struct {
	base
	Values []string
}

func (AllowedValues) Kind() Kind { return KindAllowedValues }

// NewAllowedValues builds an AllowedValues constraint.
func NewAllowedValues(values []string, sev valuemodel.Severity) AllowedValues {
	return AllowedValues{base{Sev: sev}, values}
}

// FileExtension restricts a FILE/IMAGE value to a set of extensions.
type FileExtension struct {
	base
	Extensions []string
}

func (FileExtension) Kind() Kind { return KindFileExtension }

// NewFileExtension builds a FileExtension constraint.
func NewFileExtension(extensions []string, sev valuemodel.Severity) FileExtension {
	return FileExtension{base{Sev: sev}, extensions}
}

// MaxFileSize restricts a FILE/IMAGE value's size, in bytes.
type MaxFileSize struct {
	base
	MaxBytes int64
}

func (MaxFileSize) Kind() Kind { return KindMaxFileSize }

// NewMaxFileSize builds a MaxFileSize constraint.
func NewMaxFileSize(maxBytes int64, sev valuemodel.Severity) MaxFileSize {
	return MaxFileSize{base{Sev: sev}, maxBytes}
}

// compatibleTypes maps each constraint kind to the field types it may attach
// to.
var compatibleTypes = map[Kind]map[valuemodel.FieldType]bool{
	KindMinValue: {valuemodel.FieldTypeNumber: true, valuemodel.FieldTypeDate: true},
	KindMaxValue: {valuemodel.FieldTypeNumber: true, valuemodel.FieldTypeDate: true},
	KindMinLength: {
		valuemodel.FieldTypeText: true, valuemodel.FieldTypeTextarea: true,
	},
	KindMaxLength: {
		valuemodel.FieldTypeText: true, valuemodel.FieldTypeTextarea: true,
	},
	KindFileExtension: {valuemodel.FieldTypeFile: true, valuemodel.FieldTypeImage: true},
	KindMaxFileSize:   {valuemodel.FieldTypeFile: true, valuemodel.FieldTypeImage: true},
	KindAllowedValues: {
		valuemodel.FieldTypeText: true, valuemodel.FieldTypeTextarea: true,
		valuemodel.FieldTypeNumber: true, valuemodel.FieldTypeDropdown: true,
		valuemodel.FieldTypeRadio: true,
	},
	KindPattern: {valuemodel.FieldTypeText: true, valuemodel.FieldTypeTextarea: true},
	// Required is valid for any non-CALCULATED type; handled specially in
	// IsCompatible rather than via this table.
}

// IsCompatible reports whether a constraint of kind k may attach to a field
// of type ft.
func IsCompatible(k Kind, ft valuemodel.FieldType) bool {
	if k == KindRequired {
		return ft != valuemodel.FieldTypeCalculated
	}
	allowed, ok := compatibleTypes[k]
	if !ok {
		return false
	}
	return allowed[ft]
}
