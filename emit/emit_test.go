package emit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/value"
)

func TestBodyRendersAttributesAndBlocksMultiline(t *testing.T) {
	t.Parallel()
	body := &ast.Body{Structures: []ast.Structure{
		&ast.Attribute{Name: "name", Value: &ast.LiteralExpr{Kind: "string", Str: "widget"}},
		&ast.Block{Type: "tag", Labels: []ast.Label{{Value: "color"}}, Body: &ast.Body{Structures: []ast.Structure{
			&ast.Attribute{Name: "value", Value: &ast.LiteralExpr{Kind: "bool", Bool: true}},
		}}},
	}}

	require.Equal(t, "name = \"widget\"\ntag color {\n  value = true\n}", Body(body))
}

func TestLabelTextQuotesOnlyWhenSourceQuotedOrNotIdentifier(t *testing.T) {
	t.Parallel()
	require.Equal(t, "lbl2", labelText(ast.Label{Value: "lbl2", Quoted: false}))
	require.Equal(t, `"lbl1"`, labelText(ast.Label{Value: "lbl1", Quoted: true}))
	require.Equal(t, `"has space"`, labelText(ast.Label{Value: "has space", Quoted: false}))
}

func TestQuoteStringEscapesControlCharsAndBraces(t *testing.T) {
	t.Parallel()
	require.Equal(t, `"a\nb"`, quoteString("a\nb"))
	require.Equal(t, `"literal $${x}"`, quoteString("literal ${x}"))
}

func TestValueEmitsRoundTrippableLiteral(t *testing.T) {
	t.Parallel()
	obj := value.NewObject()
	obj.Set("a", value.NumberFromInt64(1))
	obj.Set("b", value.Bool(true))

	text, err := Value(value.ObjectVal(obj))
	require.NoError(t, err)
	require.Equal(t, "{\n  a = 1\n  b = true\n}", text)
}

func TestArrayEmitsCommaSeparated(t *testing.T) {
	t.Parallel()
	e := &ast.ArrayExpr{Items: []ast.Expression{
		&ast.LiteralExpr{Kind: "number", NumberText: "1"},
		&ast.LiteralExpr{Kind: "number", NumberText: "2"},
	}}
	require.Equal(t, "[1, 2]", Expression(e))
}

func TestTemplateReemitsInterpolationWithStripMarkers(t *testing.T) {
	t.Parallel()
	e := &ast.TemplateExpr{Parts: []ast.TemplatePart{
		ast.LiteralPart{Text: "hello "},
		ast.InterpPart{Expr: &ast.Variable{Name: "name"}, StripLeft: true},
	}}
	require.Equal(t, `"hello ${~name}"`, Expression(e))
}
