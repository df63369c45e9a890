// Package encode implements the structured-data bridge's encoding half
// (spec.md §4.F, component F): mapping a caller's own record type into a
// Value (value mode) or a Body (structural mode). It mirrors decode's
// capability-based visitor protocol from the opposite direction — a
// source type answers the callbacks describing what it contains instead
// of receiving them.
package encode

import (
	"fmt"
	"math/big"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/value"
)

// Error is the EncodeError spec.md §7 describes: {InvalidValue, Custom}.
type Kind int

const (
	InvalidValue Kind = iota
	Custom
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func invalidValue(format string, a ...interface{}) *Error {
	return &Error{Kind: InvalidValue, Msg: fmt.Sprintf(format, a...)}
}

// ValueSource is a source type that can produce its own value-mode
// Value directly, without going through the leaf-kind interfaces below
// (e.g. a type that already holds a fully-formed value.Value).
type ValueSource interface {
	EncodeValue() (value.Value, error)
}

// NullSource, BoolSource, NumberSource, and StringSource are the
// value-mode leaf callbacks (spec.md §9's visit_null/visit_bool/
// visit_number/visit_string read in reverse: the source answers "am I
// one of these").
type NullSource interface{ IsNull() bool }
type BoolSource interface{ BoolValue() (bool, bool) }
type NumberSource interface{ NumberValue() (*big.Float, bool) }
type StringSource interface{ StringValue() (string, bool) }

// SequenceSource produces an ordered list of child sources.
type SequenceSource interface {
	SequenceValues() ([]interface{}, bool)
}

// MapSource produces an ordered list of key/child-source pairs.
type MapSource interface {
	MapValues() ([]KV, bool)
}

// KV is one key/value pair a MapSource yields, in the order it should
// appear in the encoded Object (spec.md §3's insertion-ordered Object).
type KV struct {
	Key   string
	Value interface{}
}

// Value implements encode()'s value-mode path: to_string_value(x) in
// spec.md §4.F terms, here named for what it returns rather than the
// eventual text form (text rendering is emit's job).
func Value(src interface{}) (value.Value, error) {
	if vs, ok := src.(ValueSource); ok {
		return vs.EncodeValue()
	}
	if ns, ok := src.(NullSource); ok && ns.IsNull() {
		return value.Null(), nil
	}
	if bs, ok := src.(BoolSource); ok {
		if b, ok := bs.BoolValue(); ok {
			return value.Bool(b), nil
		}
	}
	if ns, ok := src.(NumberSource); ok {
		if n, ok := ns.NumberValue(); ok {
			return value.NumberFromBigFloat(n), nil
		}
	}
	if ss, ok := src.(StringSource); ok {
		if s, ok := ss.StringValue(); ok {
			return value.String(s), nil
		}
	}
	if seq, ok := src.(SequenceSource); ok {
		if items, ok := seq.SequenceValues(); ok {
			out := make([]value.Value, len(items))
			for i, item := range items {
				v, err := Value(item)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.Array(out), nil
		}
	}
	if m, ok := src.(MapSource); ok {
		if pairs, ok := m.MapValues(); ok {
			obj := value.NewObject()
			for _, kv := range pairs {
				v, err := Value(kv.Value)
				if err != nil {
					return value.Value{}, err
				}
				obj.Set(kv.Key, v)
			}
			return value.ObjectVal(obj), nil
		}
	}
	return value.Value{}, invalidValue("%T does not implement any encode.*Source interface", src)
}

// AttributeSource describes one structural-mode attribute a source
// type contributes (spec.md §9's visit_attribute in reverse): Name and
// a child source whose Value() becomes the attribute's literal
// expression.
type AttributeSource struct {
	Name  string
	Value interface{}
}

// BlockSource describes one structural-mode block a source type
// contributes (spec.md §9's visit_block in reverse).
type BlockSource struct {
	Type   string
	Labels []string
	Body   StructuralSource
}

// StructuralSource is a source type that encodes to a Body: an ordered
// list of attributes, then an ordered list of blocks (spec.md §4.F
// "structural mode").
type StructuralSource interface {
	EncodeAttributes() ([]AttributeSource, error)
	EncodeBlocks() ([]BlockSource, error)
}

// Body implements encode()'s structural-mode path: to_string_structural(x)
// in spec.md §4.F terms.
func Body(src StructuralSource) (*ast.Body, error) {
	body := &ast.Body{}

	attrs, err := src.EncodeAttributes()
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		v, err := Value(a.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		expr, err := ast.ValueToExpr(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		body.Structures = append(body.Structures, &ast.Attribute{Name: a.Name, Value: expr})
	}

	blocks, err := src.EncodeBlocks()
	if err != nil {
		return nil, err
	}
	for _, blk := range blocks {
		childBody, err := Body(blk.Body)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", blk.Type, err)
		}
		labels := make([]ast.Label, len(blk.Labels))
		for i, l := range blk.Labels {
			labels[i] = ast.Label{Value: l, Quoted: true}
		}
		body.Structures = append(body.Structures, &ast.Block{Type: blk.Type, Labels: labels, Body: childBody})
	}

	return body, nil
}
