package constraint

import (
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// Validate runs the constraint-application checks for
// adding `add` to a field of type `fieldType` that already carries
// `existing`. It never touches a repository or a presentation DTO — callers
// (the entity aggregate's use-cases) supply typed domain values only.
func Validate(fieldType valuemodel.FieldType, existing []Constraint, add Constraint) error {
	// Step 2: CALCULATED guard.
	if fieldType == valuemodel.FieldTypeCalculated {
		return errors.ErrConstraintOnCalculated
	}

	// Step 3: type compatibility.
	if !IsCompatible(add.Kind(), fieldType) {
		return errors.ErrIncompatibleConstraintType
	}

	// Step 4: uniqueness.
	for _, c := range existing {
		if c.Kind() == add.Kind() {
			return errors.ErrDuplicateConstraintKind
		}
	}

	// PATTERN constraints must carry a regex that actually compiles.
	if p, ok := add.(Pattern); ok {
		if err := validatePattern(p.Regex); err != nil {
			return errors.ErrInvalidPatternRegex.Copy().WithDetail("regex", p.Regex).WithCause(err)
		}
	}

	// Step 5: cross-constraint ordering, using typed domain values.
	if err := checkOrdering(existing, add); err != nil {
		return err
	}

	return nil
}

// ValidateSet re-runs the step 2–5 checks (minus the "add" framing) over a
// complete constraint set, as needed when a field is constructed wholesale
// — entity creation, field update, or import. It
// validates incrementally: each constraint must be legal against the ones
// already accepted, so duplicate kinds and ordering violations are caught
// regardless of input order.
func ValidateSet(fieldType valuemodel.FieldType, set []Constraint) error {
	var accepted []Constraint
	for _, c := range set {
		if err := Validate(fieldType, accepted, c); err != nil {
			return err
		}
		accepted = append(accepted, c)
	}
	return nil
}

// checkOrdering enforces MinValue <= MaxValue and MinLength <= MaxLength
// across the pair that would be present on the field after `add` is applied.
func checkOrdering(existing []Constraint, add Constraint) error {
	var minValue, maxValue *float64
	var minLength, maxLength *int

	collect := func(c Constraint) {
		switch v := c.(type) {
		case MinValue:
			x := v.X
			minValue = &x
		case MaxValue:
			x := v.X
			maxValue = &x
		case MinLength:
			n := v.N
			minLength = &n
		case MaxLength:
			n := v.N
			maxLength = &n
		}
	}

	for _, c := range existing {
		collect(c)
	}
	collect(add)

	if minValue != nil && maxValue != nil && *minValue > *maxValue {
		return errors.ErrOrderingViolation
	}
	if minLength != nil && maxLength != nil && *minLength > *maxLength {
		return errors.ErrOrderingViolation
	}
	return nil
}
