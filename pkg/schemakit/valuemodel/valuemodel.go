// Package valuemodel defines the closed enums shared across the schema
// kernel: field types, severities, inferred result types, relationship
// kinds, control-rule kinds, and output-mapping targets.
package valuemodel

// FieldType is the closed set of field kinds a schema Field may declare.
type FieldType string

const (
	FieldTypeText       FieldType = "TEXT"
	FieldTypeTextarea   FieldType = "TEXTAREA"
	FieldTypeNumber     FieldType = "NUMBER"
	FieldTypeDate       FieldType = "DATE"
	FieldTypeDropdown   FieldType = "DROPDOWN"
	FieldTypeRadio      FieldType = "RADIO"
	FieldTypeCheckbox   FieldType = "CHECKBOX"
	FieldTypeCalculated FieldType = "CALCULATED"
	FieldTypeLookup     FieldType = "LOOKUP"
	FieldTypeFile       FieldType = "FILE"
	FieldTypeImage      FieldType = "IMAGE"
	FieldTypeTable      FieldType = "TABLE"
)

// IsValid reports whether ft is a member of the closed FieldType set.
func (ft FieldType) IsValid() bool {
	switch ft {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeDate,
		FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox, FieldTypeCalculated,
		FieldTypeLookup, FieldTypeFile, FieldTypeImage, FieldTypeTable:
		return true
	default:
		return false
	}
}

// IsChoice reports whether ft stores an ordered option sequence.
func (ft FieldType) IsChoice() bool {
	return ft == FieldTypeDropdown || ft == FieldTypeRadio
}

// IsDisplayableScalar reports whether ft may be the target of a LOOKUP
// field's lookup_display_field: any type except
// CALCULATED, TABLE, FILE, IMAGE.
func (ft FieldType) IsDisplayableScalar() bool {
	switch ft {
	case FieldTypeCalculated, FieldTypeTable, FieldTypeFile, FieldTypeImage:
		return false
	default:
		return ft.IsValid()
	}
}

// Severity ranks a constraint or diagnostic message.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// IsValid reports whether s is a known Severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// ResultType is the inferred type of a formula expression.
type ResultType string

const (
	ResultTypeNumber  ResultType = "NUMBER"
	ResultTypeText    ResultType = "TEXT"
	ResultTypeBoolean ResultType = "BOOLEAN"
	ResultTypeDate    ResultType = "DATE"
	ResultTypeUnknown ResultType = "UNKNOWN"
)

// RelationshipType is the closed set of design-time entity relationship
// kinds. Relationships carry no runtime semantics.
type RelationshipType string

const (
	RelationshipContains   RelationshipType = "CONTAINS"
	RelationshipReferences RelationshipType = "REFERENCES"
	RelationshipAssociates RelationshipType = "ASSOCIATES"
)

// IsValid reports whether rt is a known RelationshipType.
func (rt RelationshipType) IsValid() bool {
	switch rt {
	case RelationshipContains, RelationshipReferences, RelationshipAssociates:
		return true
	default:
		return false
	}
}

// ControlRuleType is the closed set of control-rule kinds. Exactly one rule
// per (field, rule_type) may exist.
type ControlRuleType string

const (
	ControlRuleVisibility ControlRuleType = "VISIBILITY"
	ControlRuleEnabled    ControlRuleType = "ENABLED"
	ControlRuleRequired   ControlRuleType = "REQUIRED"
)

// IsValid reports whether rt is a known ControlRuleType.
func (rt ControlRuleType) IsValid() bool {
	switch rt {
	case ControlRuleVisibility, ControlRuleEnabled, ControlRuleRequired:
		return true
	default:
		return false
	}
}

// OutputTarget is the closed set of output-mapping target kinds.
type OutputTarget string

const (
	OutputTargetText    OutputTarget = "TEXT"
	OutputTargetNumber  OutputTarget = "NUMBER"
	OutputTargetBoolean OutputTarget = "BOOLEAN"
)

// IsValid reports whether t is a known OutputTarget.
func (t OutputTarget) IsValid() bool {
	switch t {
	case OutputTargetText, OutputTargetNumber, OutputTargetBoolean:
		return true
	default:
		return false
	}
}

// BindingTarget is the closed set of places a formula may be bound to.
type BindingTarget string

const (
	BindingTargetCalculatedField BindingTarget = "CALCULATED_FIELD"
	BindingTargetValidationRule  BindingTarget = "VALIDATION_RULE"
	BindingTargetOutputMapping   BindingTarget = "OUTPUT_MAPPING"
)

// IsValid reports whether t is a known BindingTarget.
func (t BindingTarget) IsValid() bool {
	switch t {
	case BindingTargetCalculatedField, BindingTargetValidationRule, BindingTargetOutputMapping:
		return true
	default:
		return false
	}
}
