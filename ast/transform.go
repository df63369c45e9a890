package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/eldrevo/hclcore/options"
	"github.com/eldrevo/hclcore/value"
)

// BodyToValue flattens a Body to a Value (spec.md §4.D) using default
// Options; see BodyToValueOpts.
func BodyToValue(b *Body) (value.Value, error) {
	return BodyToValueOpts(b, options.Default())
}

// BodyToValueOpts flattens a Body to a Value (spec.md §4.D): attributes
// become object fields; blocks become nested objects keyed first by
// block type then by each label, one level of nesting per label; sibling
// blocks sharing the same type+label path accumulate into an array at
// the deepest level. An attribute and a block type sharing a name in the
// same body is an error. Expressions that are not already literal-valued
// (spec.md explicitly puts expression evaluation out of scope) produce
// an error naming the offending attribute.
func BodyToValueOpts(b *Body, opts options.Options) (value.Value, error) {
	obj := value.NewObject()
	attrNames := make(map[string]bool)
	blockTypes := make(map[string]bool)
	for _, s := range b.Structures {
		switch s := s.(type) {
		case *Attribute:
			if blockTypes[s.Name] {
				return value.Value{}, fmt.Errorf("attribute %q collides with a block of the same name", s.Name)
			}
			attrNames[s.Name] = true
			v, err := ExprToValueOpts(s.Value, opts)
			if err != nil {
				return value.Value{}, fmt.Errorf("attribute %q: %w", s.Name, err)
			}
			obj.Set(s.Name, v)
		case *Block:
			if attrNames[s.Type] {
				return value.Value{}, fmt.Errorf("block %q collides with a non-block attribute of the same name", s.Type)
			}
			blockTypes[s.Type] = true
			bv, err := BodyToValueOpts(s.Body, opts)
			if err != nil {
				return value.Value{}, fmt.Errorf("block %q: %w", s.Type, err)
			}
			if err := insertBlockValue(obj, s.Type, s.Labels, bv); err != nil {
				return value.Value{}, err
			}
		}
	}
	return value.ObjectVal(obj), nil
}

// insertBlockValue nests bv under obj[type][label1][label2]..., and
// collapses the final slot into an array when a sibling block at the
// same path already occupies it.
func insertBlockValue(obj *value.Object, blockType string, labels []Label, bv value.Value) error {
	if len(labels) == 0 {
		return accumulate(obj, blockType, bv)
	}

	cur, ok := obj.Get(blockType)
	var nested *value.Object
	if ok {
		nested, ok = cur.Object()
		if !ok {
			return fmt.Errorf("block %q collides with a non-block attribute of the same name", blockType)
		}
	} else {
		nested = value.NewObject()
		obj.Set(blockType, value.ObjectVal(nested))
	}

	for i, label := range labels[:len(labels)-1] {
		_ = i
		child, ok := nested.Get(label.Value)
		var childObj *value.Object
		if ok {
			childObj, ok = child.Object()
			if !ok {
				return fmt.Errorf("label %q collides with a non-object value", label.Value)
			}
		} else {
			childObj = value.NewObject()
			nested.Set(label.Value, value.ObjectVal(childObj))
		}
		nested = childObj
	}

	last := labels[len(labels)-1].Value
	return accumulate(nested, last, bv)
}

// accumulate sets obj[key] = bv, or appends bv to an existing array/
// singleton at obj[key] when a sibling block already wrote there.
func accumulate(obj *value.Object, key string, bv value.Value) error {
	existing, ok := obj.Get(key)
	if !ok {
		obj.Set(key, bv)
		return nil
	}
	if arr, isArr := existing.Array(); isArr {
		obj.Set(key, value.Array(append(arr, bv)))
		return nil
	}
	obj.Set(key, value.Array([]value.Value{existing, bv}))
	return nil
}

// ExprToValue converts a literal-valued Expression to a Value using
// default Options; see ExprToValueOpts.
func ExprToValue(e Expression) (value.Value, error) {
	return ExprToValueOpts(e, options.Default())
}

// ExprToValueOpts converts a literal-valued Expression to a Value.
// Variables, function calls, and conditionals have no meaning without an
// evaluator, which spec.md puts out of scope, so they return an error
// instead of a zero Value.
func ExprToValueOpts(e Expression, opts options.Options) (value.Value, error) {
	switch e := e.(type) {
	case *LiteralExpr:
		return literalToValue(e, opts)
	case *TemplateExpr:
		return templateToValue(e)
	case *ArrayExpr:
		items := make([]value.Value, 0, len(e.Items))
		for _, item := range e.Items {
			v, err := ExprToValueOpts(item, opts)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.Array(items), nil
	case *ObjectExpr:
		obj := value.NewObject()
		for _, item := range e.Items {
			key := item.KeyName
			if item.KeyExpr != nil {
				kv, err := ExprToValueOpts(item.KeyExpr, opts)
				if err != nil {
					return value.Value{}, err
				}
				s, ok := kv.Str()
				if !ok {
					return value.Value{}, fmt.Errorf("object key must be a string, got %s", kv.Kind())
				}
				key = s
			}
			v, err := ExprToValueOpts(item.Value, opts)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(key, v)
		}
		return value.ObjectVal(obj), nil
	case *ParenExpr:
		return ExprToValueOpts(e.Inner, opts)
	case *UnaryExpr:
		return unaryToValue(e, opts)
	default:
		return value.Value{}, fmt.Errorf("expression is not a literal value (evaluation is out of scope): %T", e)
	}
}

// unaryToValue folds `-`/`!` against a literal-valued operand. Anything
// beyond that (e.g. `-a` where `a` is a variable) still requires
// evaluation and is rejected the same way the rest of ExprToValueOpts
// rejects non-literal expressions.
func unaryToValue(e *UnaryExpr, opts options.Options) (value.Value, error) {
	rhs, err := ExprToValueOpts(e.Rhs, opts)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op {
	case "-":
		n, ok := rhs.Number()
		if !ok {
			return value.Value{}, fmt.Errorf("unary %q requires a number operand, got %s", e.Op, rhs.Kind())
		}
		return value.NumberFromBigFloat(new(big.Float).Neg(n)), nil
	case "!":
		b, ok := rhs.Bool()
		if !ok {
			return value.Value{}, fmt.Errorf("unary %q requires a bool operand, got %s", e.Op, rhs.Kind())
		}
		return value.Bool(!b), nil
	default:
		return value.Value{}, fmt.Errorf("unknown unary operator %q", e.Op)
	}
}

func literalToValue(e *LiteralExpr, opts options.Options) (value.Value, error) {
	switch e.Kind {
	case "null":
		return value.Null(), nil
	case "bool":
		return value.Bool(e.Bool), nil
	case "number":
		return parseNumber(e.NumberText, opts)
	case "string":
		return value.String(e.Str), nil
	default:
		return value.Value{}, fmt.Errorf("unknown literal kind %q", e.Kind)
	}
}

// parseNumber applies spec.md §3/§9's integer-preservation rule:
// literals without a fraction or exponent that fit in int64 stay exact
// integers; everything else becomes a Number backed either by float64
// or, with PreserveNumberPrecision, by the literal's full-precision
// big.Float parse.
func parseNumber(text string, opts options.Options) (value.Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.NumberFromInt64(i), nil
		}
	}
	if opts.PreserveNumberPrecision {
		f, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid number literal %q: %w", text, err)
		}
		return value.NumberFromBigFloat(f), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid number literal %q: %w", text, err)
	}
	return value.NumberFromFloat(f), nil
}

// templateToValue only succeeds for a template made of a single literal
// part — anything containing an interpolation or directive requires
// evaluation, which BodyToValue does not perform.
func templateToValue(e *TemplateExpr) (value.Value, error) {
	if len(e.Parts) == 0 {
		return value.String(""), nil
	}
	if len(e.Parts) == 1 {
		if lit, ok := e.Parts[0].(LiteralPart); ok {
			return value.String(lit.Text), nil
		}
	}
	return value.Value{}, fmt.Errorf("template contains interpolations or directives and cannot be reduced to a literal value without evaluation")
}

// ValueToBody inverts BodyToValue for an object-shaped Value (spec.md
// §4.D): every key becomes an attribute whose expression is the literal
// form of its value. It never reconstructs blocks, since a flattened
// Value cannot distinguish "nested object attribute" from "single-label
// block" — reconstructing blocks is a decoder/schema-driven decision,
// not a structural one.
func ValueToBody(v value.Value) (*Body, error) {
	obj, ok := v.Object()
	if !ok {
		return nil, fmt.Errorf("value_to_body requires an object value, got %s", v.Kind())
	}
	body := &Body{}
	for _, key := range obj.Keys() {
		fv, _ := obj.Get(key)
		expr, err := ValueToExpr(fv)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		body.Structures = append(body.Structures, &Attribute{Name: key, Value: expr})
	}
	return body, nil
}

// ValueToExpr renders a Value as the literal Expression that produces it.
func ValueToExpr(v value.Value) (Expression, error) {
	switch v.Kind() {
	case value.KindNull:
		return &LiteralExpr{Kind: "null"}, nil
	case value.KindBool:
		b, _ := v.Bool()
		return &LiteralExpr{Kind: "bool", Bool: b}, nil
	case value.KindNumber:
		n, _ := v.Number()
		return &LiteralExpr{Kind: "number", NumberText: n.Text('g', -1)}, nil
	case value.KindString:
		s, _ := v.Str()
		return &LiteralExpr{Kind: "string", Str: s}, nil
	case value.KindArray:
		items, _ := v.Array()
		out := make([]Expression, 0, len(items))
		for _, item := range items {
			e, err := ValueToExpr(item)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return &ArrayExpr{Items: out}, nil
	case value.KindObject:
		obj, _ := v.Object()
		var items []ObjectItem
		for _, key := range obj.Keys() {
			fv, _ := obj.Get(key)
			e, err := ValueToExpr(fv)
			if err != nil {
				return nil, err
			}
			items = append(items, ObjectItem{KeyName: key, Value: e})
		}
		return &ObjectExpr{Items: items}, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}
