package formula_test

import (
	"testing"

	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ParserTestSuite struct {
	suite.Suite
}

func (s *ParserTestSuite) TestPrecedence() {
	expr, err := formula.Parse("1 + 2 * 3")
	s.Require().NoError(err)
	bin, ok := expr.(formula.BinaryExpr)
	s.Require().True(ok)
	s.Equal("+", bin.Op)
	_, ok = bin.Right.(formula.BinaryExpr)
	s.True(ok, "multiplication should bind tighter than addition")
}

func (s *ParserTestSuite) TestFieldRefSyntax() {
	expr, err := formula.Parse("{{ amount }} > 0")
	s.Require().NoError(err)
	cmp, ok := expr.(formula.BinaryExpr)
	s.Require().True(ok)
	ref, ok := cmp.Left.(formula.FieldRef)
	s.Require().True(ok)
	s.Equal("amount", ref.FieldID)
}

func (s *ParserTestSuite) TestBareIdentifierIsFieldRef() {
	expr, err := formula.Parse("quantity")
	s.Require().NoError(err)
	ref, ok := expr.(formula.FieldRef)
	s.Require().True(ok)
	s.Equal("quantity", ref.FieldID)
}

func (s *ParserTestSuite) TestFunctionCall() {
	expr, err := formula.Parse("round(price, 2)")
	s.Require().NoError(err)
	call, ok := expr.(formula.CallExpr)
	s.Require().True(ok)
	s.Equal("round", call.Name)
	s.Len(call.Args, 2)
}

func (s *ParserTestSuite) TestUnterminatedFieldRef() {
	_, err := formula.Parse("{{ amount")
	s.Error(err)
	var perr *formula.ParseError
	s.Require().ErrorAs(err, &perr)
}

func (s *ParserTestSuite) TestTrailingGarbageRejected() {
	_, err := formula.Parse("1 + 1 )")
	s.Error(err)
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func TestValidateArithmeticRequiresNumbers(t *testing.T) {
	fields := formula.FieldSet{
		"amount": valuemodel.FieldTypeNumber,
		"label":  valuemodel.FieldTypeText,
	}
	result := formula.Validate("amount + label", fields)
	require.True(t, result.HasErrors())
	require.Equal(t, valuemodel.ResultTypeNumber, result.InferredType)
}

func TestValidateUnknownFieldReference(t *testing.T) {
	result := formula.Validate("missing_field > 0", formula.FieldSet{})
	require.True(t, result.HasErrors())
}

func TestValidateComparisonAcrossTypesWarns(t *testing.T) {
	fields := formula.FieldSet{
		"amount": valuemodel.FieldTypeNumber,
		"label":  valuemodel.FieldTypeText,
	}
	result := formula.Validate("amount == label", fields)
	require.False(t, result.HasErrors())
	require.NotEmpty(t, result.Warnings)
	require.Equal(t, valuemodel.ResultTypeBoolean, result.InferredType)
}

func TestValidateBooleanFormula(t *testing.T) {
	fields := formula.FieldSet{"amount": valuemodel.FieldTypeNumber}
	result := formula.Validate("amount > 100 and amount < 1000", fields)
	require.False(t, result.HasErrors())
	require.Equal(t, valuemodel.ResultTypeBoolean, result.InferredType)
}

func TestValidateUnknownFunction(t *testing.T) {
	result := formula.Validate("nonsense(1, 2)", formula.FieldSet{})
	require.True(t, result.HasErrors())
}

func TestDependenciesDeduplicatesInFirstOccurrenceOrder(t *testing.T) {
	fields := formula.FieldSet{"a": valuemodel.FieldTypeNumber, "b": valuemodel.FieldTypeNumber}
	deps, err := formula.Dependencies("a + b + a", fields)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	require.Equal(t, "a", deps[0].FieldID)
	require.Equal(t, "b", deps[1].FieldID)
	require.True(t, deps[0].Known)
}

func TestDependenciesTagsUnknownFields(t *testing.T) {
	deps, err := formula.Dependencies("ghost + 1", formula.FieldSet{})
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.False(t, deps[0].Known)
}

func TestCycleAnalysisSelfReference(t *testing.T) {
	deps := map[string][]string{"a": {"a"}}
	result := formula.CycleAnalysis(deps)
	require.True(t, result.HasCycles)
	require.Len(t, result.Cycles, 1)
	require.True(t, result.Cycles[0].IsSelfRef)
}

func TestCycleAnalysisMutualCycle(t *testing.T) {
	deps := map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"c": {},
	}
	result := formula.CycleAnalysis(deps)
	require.True(t, result.HasCycles)
	require.Equal(t, []string{"a", "b"}, result.AllCycleFieldIDs)
}

func TestCycleAnalysisNoCycleOnDAG(t *testing.T) {
	deps := map[string][]string{
		"total":    {"price", "quantity"},
		"price":    {},
		"quantity": {},
	}
	result := formula.CycleAnalysis(deps)
	require.False(t, result.HasCycles)
	require.Empty(t, result.Cycles)
}

func TestEvaluateArithmetic(t *testing.T) {
	out, err := formula.Evaluate("price * quantity", map[string]any{"price": 2.5, "quantity": 4.0})
	require.NoError(t, err)
	require.Equal(t, 10.0, out)
}

func TestEvaluateBuiltinFunctions(t *testing.T) {
	out, err := formula.Evaluate("round(price, 1)", map[string]any{"price": 2.449})
	require.NoError(t, err)
	require.Equal(t, 2.4, out)
}

func TestEvaluateBooleanResult(t *testing.T) {
	out, err := formula.Evaluate("amount > 0 and amount < 100", map[string]any{"amount": 50.0})
	require.NoError(t, err)
	require.Equal(t, true, out)
}

func TestEvaluateUnknownFieldYieldsNilEnv(t *testing.T) {
	out, err := formula.Evaluate("is_empty(missing)", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, true, out)
}
