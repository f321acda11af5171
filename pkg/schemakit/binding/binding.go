// Package binding decides whether a formula may be bound to a target —
// currently only a CALCULATED field. Pure: no repository, no file system.
package binding

import (
	"github.com/niiniyare/schemaforge/pkg/schemakit/governance"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
)

// Status is the closed set of binding outcomes.
type Status string

const (
	StatusNoTarget                 Status = "NO_TARGET"
	StatusCleared                  Status = "CLEARED"
	StatusBlockedInvalidFormula    Status = "BLOCKED_INVALID_FORMULA"
	StatusBlockedUnsupportedTarget Status = "BLOCKED_UNSUPPORTED_TARGET"
	StatusAllowed                  Status = "ALLOWED"
)

// SupportedTargets is the set of binding targets currently activated.
// VALIDATION_RULE and OUTPUT_MAPPING are recorded as targets but
// policy-blocked until a later phase; activation is a change to this
// constant, never a schema migration.
var SupportedTargets = map[valuemodel.BindingTarget]bool{
	valuemodel.BindingTargetCalculatedField: true,
}

// Decide applies the binding-status table. hasTarget reports whether a
// binding target is configured at all; gov is the formula's governance
// result (ignored when hasTarget is false).
func Decide(hasTarget bool, target valuemodel.BindingTarget, gov governance.Result) Status {
	if !hasTarget {
		return StatusNoTarget
	}
	if gov.Status == governance.StatusEmpty {
		return StatusCleared
	}
	if gov.Status == governance.StatusInvalid {
		return StatusBlockedInvalidFormula
	}
	if !SupportedTargets[target] {
		return StatusBlockedUnsupportedTarget
	}
	return StatusAllowed
}
