package main

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/constraint"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// constraintRequest is the wire shape for POSTing a new constraint onto a
// field — a flattened union of every constraint kind's parameters, only
// the subset relevant to Kind is read.
type constraintRequest struct {
	Kind       constraint.Kind `json:"kind"`
	Severity   string          `json:"severity"`
	Length     int             `json:"length"`
	Value      float64         `json:"value"`
	Regex      string          `json:"regex"`
	Desc       string          `json:"description"`
	Values     []string        `json:"values"`
	Extensions []string        `json:"extensions"`
	MaxBytes   int64           `json:"max_bytes"`
}

func (r constraintRequest) build() (constraint.Constraint, error) {
	sev := valuemodel.Severity(r.Severity)
	if sev == "" {
		sev = valuemodel.SeverityError
	}

	switch r.Kind {
	case constraint.KindRequired:
		return constraint.NewRequired(sev), nil
	case constraint.KindMinLength:
		return constraint.NewMinLength(r.Length, sev), nil
	case constraint.KindMaxLength:
		return constraint.NewMaxLength(r.Length, sev), nil
	case constraint.KindMinValue:
		return constraint.NewMinValue(r.Value, sev), nil
	case constraint.KindMaxValue:
		return constraint.NewMaxValue(r.Value, sev), nil
	case constraint.KindPattern:
		return constraint.NewPattern(r.Regex, r.Desc, sev), nil
	case constraint.KindAllowedValues:
		return constraint.NewAllowedValues(r.Values, sev), nil
	case constraint.KindFileExtension:
		return constraint.NewFileExtension(r.Extensions, sev), nil
	case constraint.KindMaxFileSize:
		return constraint.NewMaxFileSize(r.MaxBytes, sev), nil
	default:
		return nil, errors.NewBusinessError(errors.CodeInvalidType, "unknown constraint kind").WithCategory(errors.CategoryValidation)
	}
}
