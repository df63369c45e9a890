// Package hclcore is the public entry point for the HCL-like
// configuration language core spec.md describes: a grammar/AST layer
// (ast, parser), a value model (value), and a structured-data bridge
// (decode, encode), rendered back to text by emit. This file wires those
// packages into the operations spec.md §6 names: parse_body, parse_value,
// parse_template, emit, decode, encode.
package hclcore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/decode"
	"github.com/eldrevo/hclcore/diagnostic"
	"github.com/eldrevo/hclcore/emit"
	"github.com/eldrevo/hclcore/encode"
	"github.com/eldrevo/hclcore/options"
	"github.com/eldrevo/hclcore/parser"
	"github.com/eldrevo/hclcore/value"
)

// Options configures every entry point below. It is the one explicit
// configuration record spec.md §9 asks for in place of global state.
type Options = options.Options

// DefaultOptions returns the Options used when a caller has none of
// their own opinions: a generous recursion bound and float64 number
// semantics (see options.Default).
func DefaultOptions() Options { return options.Default() }

// ParseError is returned by ParseBody/ParseValue/ParseTemplate when the
// input is not a valid body/template (spec.md §7).
type ParseError = parser.ParseError

// ParseBody implements parse_body(text) -> Body | ParseError. ctx is
// passed through diagnostic.EnsureSources before parsing. A returned
// *ParseError shows its source line in Pretty only when the caller's own
// ctx carries Sources (diagnostic.WithSources) and is the one passed to
// Pretty; with a bare context.Background() the buffered source text is
// not reachable from the caller's ctx.
func ParseBody(ctx context.Context, filename string, r io.Reader, opts Options) (*ast.Body, error) {
	ctx = diagnostic.EnsureSources(ctx)
	return parser.ParseBody(ctx, filename, r, opts)
}

// ParseBodyString is ParseBody over in-memory source text.
func ParseBodyString(ctx context.Context, filename, src string, opts Options) (*ast.Body, error) {
	return ParseBody(ctx, filename, strings.NewReader(src), opts)
}

// ParseValue implements parse_value(text) -> Value | ParseError: parse as
// a body, then flatten it (spec.md §6's "convenience: parse as body then
// flatten").
func ParseValue(ctx context.Context, filename string, r io.Reader, opts Options) (value.Value, error) {
	body, err := ParseBody(ctx, filename, r, opts)
	if err != nil {
		return value.Value{}, err
	}
	return ast.BodyToValueOpts(body, opts)
}

// ParseValueString is ParseValue over in-memory source text.
func ParseValueString(ctx context.Context, filename, src string, opts Options) (value.Value, error) {
	return ParseValue(ctx, filename, strings.NewReader(src), opts)
}

// ParseTemplate implements parse_template(text) -> Template | ParseError.
func ParseTemplate(ctx context.Context, filename, src string, opts Options) (ast.Expression, error) {
	return parser.ParseTemplate(ctx, filename, src, opts)
}

// ParseFiles parses every named source concurrently; see
// parser.ParseFiles.
func ParseFiles(ctx context.Context, sources map[string]io.Reader, opts Options) (map[string]*ast.Body, error) {
	ctx = diagnostic.EnsureSources(ctx)
	return parser.ParseFiles(ctx, sources, opts)
}

// Emit implements emit(body|value|expression) -> text. x must be a
// *ast.Body, an ast.Expression, or a value.Value.
func Emit(x interface{}) (string, error) {
	switch x := x.(type) {
	case *ast.Body:
		return emit.Body(x), nil
	case ast.Expression:
		return emit.Expression(x), nil
	case value.Value:
		return emit.Value(x)
	default:
		return "", fmt.Errorf("hclcore: Emit: unsupported type %T", x)
	}
}

// Decode implements decode(body|value, target) -> user_record |
// DecodeError. source must be a *ast.Body (structural mode) or a
// value.Value (value mode); target answers whichever decode.*Visitor
// interfaces it implements.
func Decode(source interface{}, target interface{}) error {
	switch source := source.(type) {
	case *ast.Body:
		return decode.Body(source, target)
	case value.Value:
		return decode.Value(source, target)
	default:
		return fmt.Errorf("hclcore: Decode: unsupported source type %T", source)
	}
}

// DecodeDynamic decodes source into a value.Value regardless of whether
// it is structural or literal (spec.md §4.E's "value mode"): a *ast.Body
// is flattened first via ast.BodyToValue, then both paths drive the
// same decode.Dynamic target.
func DecodeDynamic(source interface{}, opts Options) (value.Value, error) {
	var v value.Value
	switch source := source.(type) {
	case *ast.Body:
		bv, err := ast.BodyToValueOpts(source, opts)
		if err != nil {
			return value.Value{}, err
		}
		v = bv
	case value.Value:
		v = source
	default:
		return value.Value{}, fmt.Errorf("hclcore: DecodeDynamic: unsupported source type %T", source)
	}
	d := &decode.Dynamic{}
	if err := decode.Value(v, d); err != nil {
		return value.Value{}, err
	}
	return d.Result, nil
}

// EncodeValue implements encode(user_record) -> value (spec.md §4.F's
// "value mode": to_string_value(x)).
func EncodeValue(src interface{}) (value.Value, error) {
	return encode.Value(src)
}

// EncodeBody implements encode(user_record) -> body (spec.md §4.F's
// "structural mode": to_string_structural(x)).
func EncodeBody(src encode.StructuralSource) (*ast.Body, error) {
	return encode.Body(src)
}

// Dump renders x (a *ast.Body, ast.Expression, or value.Value) as a
// debug tree, the ambient inspection tooling spec.md's SUPPLEMENTED
// FEATURES calls out — never part of the canonical Emit text form.
func Dump(x interface{}) string {
	tree := treeprint.New()
	switch x := x.(type) {
	case *ast.Body:
		dumpBody(tree, x)
	case ast.Expression:
		dumpExpr(tree, x)
	case value.Value:
		dumpValue(tree, x)
	default:
		tree.SetValue(fmt.Sprintf("<unsupported %T>", x))
	}
	return tree.String()
}

func dumpBody(tree treeprint.Tree, b *ast.Body) {
	for _, s := range b.Structures {
		switch s := s.(type) {
		case *ast.Attribute:
			branch := tree.AddBranch(fmt.Sprintf("attribute %s", s.Name))
			dumpExpr(branch, s.Value)
		case *ast.Block:
			labels := make([]string, len(s.Labels))
			for i, l := range s.Labels {
				labels[i] = l.Value
			}
			branch := tree.AddBranch(fmt.Sprintf("block %s %v", s.Type, labels))
			dumpBody(branch, s.Body)
		}
	}
}

func dumpExpr(tree treeprint.Tree, e ast.Expression) {
	tree.AddNode(emit.Expression(e))
}

func dumpValue(tree treeprint.Tree, v value.Value) {
	switch v.Kind() {
	case value.KindArray:
		items, _ := v.Array()
		branch := tree.AddBranch("array")
		for i, item := range items {
			child := branch.AddBranch(fmt.Sprintf("[%d]", i))
			dumpValue(child, item)
		}
	case value.KindObject:
		obj, _ := v.Object()
		branch := tree.AddBranch("object")
		for _, key := range obj.Keys() {
			fv, _ := obj.Get(key)
			child := branch.AddBranch(key)
			dumpValue(child, fv)
		}
	default:
		tree.SetValue(v.String())
	}
}
