package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/options"
)

func mustParse(t *testing.T, src string) *ast.Body {
	t.Helper()
	ctx := context.Background()
	body, err := ParseBodyString(ctx, "test.hcl", src, options.Default())
	require.NoError(t, err)
	return body
}

func TestParseTwoAttributes(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `
		name = "widget"
		count = 3
	`)
	require.Len(t, body.Structures, 2)
	require.Equal(t, "name", body.Structures[0].(*ast.Attribute).Name)
	require.Equal(t, "count", body.Structures[1].(*ast.Attribute).Name)
}

func TestParseLabeledBlockWithMixedQuoting(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `block "lbl1" lbl2 { x = true }`)
	require.Len(t, body.Structures, 1)
	blk := body.Structures[0].(*ast.Block)
	require.Equal(t, "block", blk.Type)
	require.Equal(t, []ast.Label{{Value: "lbl1", Quoted: true}, {Value: "lbl2", Quoted: false}}, blk.Labels)
	require.Len(t, blk.Body.Structures, 1)
}

func TestParseTemplateInterpolation(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `s = "hello ${name}!"`)
	attr := body.Structures[0].(*ast.Attribute)
	tmpl, ok := attr.Value.(*ast.TemplateExpr)
	require.True(t, ok)
	require.Len(t, tmpl.Parts, 3)
	require.Equal(t, ast.LiteralPart{Text: "hello "}, tmpl.Parts[0])
	interp, ok := tmpl.Parts[1].(ast.InterpPart)
	require.True(t, ok)
	v, ok := interp.Expr.(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, "name", v.Name)
	require.Equal(t, ast.LiteralPart{Text: "!"}, tmpl.Parts[2])
}

func TestParseArrayWithTrailingComma(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `xs = [1, 2, 3,]`)
	attr := body.Structures[0].(*ast.Attribute)
	arr, ok := attr.Value.(*ast.ArrayExpr)
	require.True(t, ok)
	require.Len(t, arr.Items, 3)
}

func TestParseObjectKeyEqualsAndColonEquivalent(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `obj = { a = 1, b: 2 }`)
	attr := body.Structures[0].(*ast.Attribute)
	obj, ok := attr.Value.(*ast.ObjectExpr)
	require.True(t, ok)
	require.Len(t, obj.Items, 2)
	require.Equal(t, "a", obj.Items[0].KeyName)
	require.Equal(t, "b", obj.Items[1].KeyName)
}

func TestParseFloatLiteral(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `n = 1.5e2`)
	attr := body.Structures[0].(*ast.Attribute)
	v, err := ast.ExprToValue(attr.Value)
	require.NoError(t, err)
	n, ok := v.Number()
	require.True(t, ok)
	f, _ := n.Float64()
	require.Equal(t, 150.0, f)
}

func TestParseHeredocDedent(t *testing.T) {
	t.Parallel()
	body := mustParse(t, "s = <<-END\n  a\n    b\n  END\n")
	attr := body.Structures[0].(*ast.Attribute)
	v, err := ast.ExprToValue(attr.Value)
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok)
	require.Equal(t, "a\n  b\n", s)
}

func TestParseLegacyIndexTraversal(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `x = list.0`)
	attr := body.Structures[0].(*ast.Attribute)
	trav, ok := attr.Value.(*ast.TraversalExpr)
	require.True(t, ok)
	v, ok := trav.Base.(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, "list", v.Name)
	require.Len(t, trav.Suffixes, 1)
	legacy, ok := trav.Suffixes[0].(ast.LegacyIndex)
	require.True(t, ok)
	require.Equal(t, 0, legacy.Index)
}

func TestParseNegativeNumberAndNegatedBoolFlattenToValue(t *testing.T) {
	t.Parallel()
	body := mustParse(t, "x = -5\ny = !true")
	x := body.Structures[0].(*ast.Attribute)
	vx, err := ast.ExprToValue(x.Value)
	require.NoError(t, err)
	n, ok := vx.Number()
	require.True(t, ok)
	f, _ := n.Float64()
	require.Equal(t, -5.0, f)

	y := body.Structures[1].(*ast.Attribute)
	vy, err := ast.ExprToValue(y.Value)
	require.NoError(t, err)
	b, ok := vy.Bool()
	require.True(t, ok)
	require.False(t, b)
}

func TestParseHeredocDedentUsesTerminatorIndentAsMinimum(t *testing.T) {
	t.Parallel()
	body := mustParse(t, "s = <<-END\n    a\n  END\n")
	attr := body.Structures[0].(*ast.Attribute)
	v, err := ast.ExprToValue(attr.Value)
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok)
	require.Equal(t, "  a\n", s)
}

func TestParseDuplicateAttributesPreserveSourceOrder(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `
		x = 1
		x = 2
	`)
	require.Len(t, body.Structures, 2)
	a, b := body.Structures[0].(*ast.Attribute), body.Structures[1].(*ast.Attribute)
	require.Equal(t, "x", a.Name)
	require.Equal(t, "x", b.Name)
}

func TestParseBodyMaxDepthGuardsStackExhaustion(t *testing.T) {
	t.Parallel()
	deep := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	ctx := context.Background()
	opts := options.Default()
	opts.MaxDepth = 64
	_, err := ParseBodyString(ctx, "deep.hcl", "x = "+deep, opts)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseLabelsMatchExpectedViaCmp(t *testing.T) {
	t.Parallel()
	body := mustParse(t, `rule "a" "b" {}`)
	blk := body.Structures[0].(*ast.Block)
	want := []ast.Label{{Value: "a", Quoted: true}, {Value: "b", Quoted: true}}
	if diff := cmp.Diff(want, blk.Labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidSyntaxReturnsParseError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := ParseBodyString(ctx, "bad.hcl", `x = `, options.Default())
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
