package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/options"
	"github.com/eldrevo/hclcore/value"
)

func TestBodyToValueFlattensAttributesAndBlocks(t *testing.T) {
	t.Parallel()

	body := &Body{Structures: []Structure{
		&Attribute{Name: "name", Value: &LiteralExpr{Kind: "string", Str: "widget"}},
		&Block{Type: "tag", Labels: []Label{{Value: "color"}}, Body: &Body{Structures: []Structure{
			&Attribute{Name: "value", Value: &LiteralExpr{Kind: "string", Str: "red"}},
		}}},
	}}

	v, err := BodyToValue(body)
	require.NoError(t, err)

	obj, ok := v.Object()
	require.True(t, ok)

	name, ok := obj.Get("name")
	require.True(t, ok)
	s, _ := name.Str()
	require.Equal(t, "widget", s)

	tag, ok := obj.Get("tag")
	require.True(t, ok)
	tagObj, ok := tag.Object()
	require.True(t, ok)
	color, ok := tagObj.Get("color")
	require.True(t, ok)
	colorObj, ok := color.Object()
	require.True(t, ok)
	valueAttr, ok := colorObj.Get("value")
	require.True(t, ok)
	vs, _ := valueAttr.Str()
	require.Equal(t, "red", vs)
}

func TestBodyToValueAccumulatesSiblingBlocksIntoArray(t *testing.T) {
	t.Parallel()

	body := &Body{Structures: []Structure{
		&Block{Type: "rule", Labels: nil, Body: &Body{Structures: []Structure{
			&Attribute{Name: "n", Value: &LiteralExpr{Kind: "number", NumberText: "1"}},
		}}},
		&Block{Type: "rule", Labels: nil, Body: &Body{Structures: []Structure{
			&Attribute{Name: "n", Value: &LiteralExpr{Kind: "number", NumberText: "2"}},
		}}},
	}}

	v, err := BodyToValue(body)
	require.NoError(t, err)

	obj, _ := v.Object()
	rule, ok := obj.Get("rule")
	require.True(t, ok)
	arr, ok := rule.Array()
	require.True(t, ok)
	require.Len(t, arr, 2)
}

func TestExprToValueRejectsNonLiteral(t *testing.T) {
	t.Parallel()
	_, err := ExprToValue(&Variable{Name: "x"})
	require.Error(t, err)
}

func TestValueToBodyRoundTrip(t *testing.T) {
	t.Parallel()

	obj := value.NewObject()
	obj.Set("a", value.NumberFromInt64(1))
	obj.Set("b", value.Bool(true))
	v := value.ObjectVal(obj)

	body, err := ValueToBody(v)
	require.NoError(t, err)
	require.Len(t, body.Structures, 2)

	roundTripped, err := BodyToValue(body)
	require.NoError(t, err)
	require.True(t, value.Equal(v, roundTripped))
}

func TestExprToValueFoldsUnaryMinusAndNot(t *testing.T) {
	t.Parallel()

	neg, err := ExprToValue(&UnaryExpr{Op: "-", Rhs: &LiteralExpr{Kind: "number", NumberText: "5"}})
	require.NoError(t, err)
	n, ok := neg.Number()
	require.True(t, ok)
	f, _ := n.Float64()
	require.Equal(t, -5.0, f)

	not, err := ExprToValue(&UnaryExpr{Op: "!", Rhs: &LiteralExpr{Kind: "bool", Bool: true}})
	require.NoError(t, err)
	b, ok := not.Bool()
	require.True(t, ok)
	require.False(t, b)
}

func TestParseNumberPreservesInt64Exactly(t *testing.T) {
	t.Parallel()
	v, err := parseNumber("9223372036854775807", options.Default())
	require.NoError(t, err)
	n, ok := v.Number()
	require.True(t, ok)
	require.Equal(t, "9223372036854775807", n.Text('f', 0))
}

func TestParseNumberWithPreservePrecisionKeepsFullDecimal(t *testing.T) {
	t.Parallel()
	opts := options.Default()
	opts.PreserveNumberPrecision = true
	v, err := parseNumber("0.1", opts)
	require.NoError(t, err)
	n, ok := v.Number()
	require.True(t, ok)
	require.Equal(t, "0.1", n.Text('g', -1))
}
