package formula

import "github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"

// FunctionSignature describes a registry function's arity and its inferred
// return type, for the closed function registry.
type FunctionSignature struct {
	MinArgs    int
	MaxArgs    int // -1 means unbounded
	ReturnType valuemodel.ResultType
}

// registry is the closed set of callable functions. TABLE aggregation
// helpers (sum/avg/min/max/count over a child entity's rows) have their
// own table_-prefixed names, separate from the scalar functions.
var registry = map[string]FunctionSignature{
	"abs":      {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeNumber},
	"min":      {MinArgs: 1, MaxArgs: -1, ReturnType: valuemodel.ResultTypeNumber},
	"max":      {MinArgs: 1, MaxArgs: -1, ReturnType: valuemodel.ResultTypeNumber},
	"sum":      {MinArgs: 1, MaxArgs: -1, ReturnType: valuemodel.ResultTypeNumber},
	"round":    {MinArgs: 1, MaxArgs: 2, ReturnType: valuemodel.ResultTypeNumber},
	"floor":    {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeNumber},
	"ceil":     {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeNumber},
	"upper":    {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeText},
	"lower":    {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeText},
	"trim":     {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeText},
	"concat":   {MinArgs: 1, MaxArgs: -1, ReturnType: valuemodel.ResultTypeText},
	"length":   {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeNumber},
	"is_empty": {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeBoolean},

	// TABLE aggregation helpers: table_sum(table_field, child_field) etc.
	"table_sum":   {MinArgs: 2, MaxArgs: 2, ReturnType: valuemodel.ResultTypeNumber},
	"table_avg":   {MinArgs: 2, MaxArgs: 2, ReturnType: valuemodel.ResultTypeNumber},
	"table_count": {MinArgs: 1, MaxArgs: 1, ReturnType: valuemodel.ResultTypeNumber},
	"table_min":   {MinArgs: 2, MaxArgs: 2, ReturnType: valuemodel.ResultTypeNumber},
	"table_max":   {MinArgs: 2, MaxArgs: 2, ReturnType: valuemodel.ResultTypeNumber},
}

// LookupFunction returns the signature for name and whether it is known.
func LookupFunction(name string) (FunctionSignature, bool) {
	sig, ok := registry[name]
	return sig, ok
}
