package decode

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/value"
)

type widget struct {
	Name  string
	Count int64
	Seen  []string
}

func (w *widget) KnownFields() (names []string, closed bool) {
	return []string{"name", "count", "tag"}, true
}

func (w *widget) RequiredFields() []string {
	return []string{"name"}
}

func (w *widget) VisitAttribute(name string, expr ast.Expression) error {
	lit, ok := expr.(*ast.LiteralExpr)
	if !ok {
		return nil
	}
	switch name {
	case "name":
		w.Name = lit.Str
	case "count":
		w.Count = 1
	}
	return nil
}

func (w *widget) VisitBlock(name string, labels []string, body *ast.Body) error {
	if name == "tag" {
		w.Seen = append(w.Seen, labels[0])
	}
	return nil
}

func TestBodyRejectsUnknownFieldOnClosedSchema(t *testing.T) {
	t.Parallel()
	body := &ast.Body{Structures: []ast.Structure{
		&ast.Attribute{Name: "name", Value: &ast.LiteralExpr{Kind: "string", Str: "x"}},
		&ast.Attribute{Name: "nope", Value: &ast.LiteralExpr{Kind: "bool", Bool: true}},
	}}
	var w widget
	err := Body(body, &w)
	require.Error(t, err)
	var de *Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, UnknownField, de.Kind)
	require.Equal(t, "nope", de.Name)
}

func TestBodyReportsMissingRequiredField(t *testing.T) {
	t.Parallel()
	body := &ast.Body{Structures: []ast.Structure{
		&ast.Attribute{Name: "count", Value: &ast.LiteralExpr{Kind: "number", NumberText: "1"}},
	}}
	var w widget
	err := Body(body, &w)
	require.Error(t, err)
	var de *Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, MissingField, de.Kind)
	require.Equal(t, "name", de.Name)
}

func TestBodyVisitsDuplicateBlocksInSourceOrder(t *testing.T) {
	t.Parallel()
	body := &ast.Body{Structures: []ast.Structure{
		&ast.Attribute{Name: "name", Value: &ast.LiteralExpr{Kind: "string", Str: "x"}},
		&ast.Block{Type: "tag", Labels: []ast.Label{{Value: "a"}}, Body: &ast.Body{}},
		&ast.Block{Type: "tag", Labels: []ast.Label{{Value: "b"}}, Body: &ast.Body{}},
	}}
	var w widget
	require.NoError(t, Body(body, &w))
	require.Equal(t, []string{"a", "b"}, w.Seen)
}

type leafTarget struct {
	gotString string
	gotBool   bool
	gotNumber *big.Float
}

func (l *leafTarget) VisitString(s string) error { l.gotString = s; return nil }
func (l *leafTarget) VisitBool(b bool) error      { l.gotBool = b; return nil }
func (l *leafTarget) VisitNumber(n *big.Float) error {
	l.gotNumber = n
	return nil
}

func TestValueDispatchesToMatchingLeafVisitor(t *testing.T) {
	t.Parallel()
	var l leafTarget
	require.NoError(t, Value(value.String("hi"), &l))
	require.Equal(t, "hi", l.gotString)
}

func TestValueReturnsTypeMismatchWhenTargetLacksVisitor(t *testing.T) {
	t.Parallel()
	var l leafTarget
	err := Value(value.Array(nil), &l)
	require.Error(t, err)
	var de *Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, TypeMismatch, de.Kind)
}

func TestPathString(t *testing.T) {
	t.Parallel()
	p := Path{AttrPathElem{"a"}, AttrPathElem{"b"}, IndexPathElem{2}, AttrPathElem{"c"}}
	require.Equal(t, "a.b[2].c", p.String())
}
