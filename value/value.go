// Package value implements the insertion-ordered data model (spec.md §3,
// component C) that sits between the structural model (ast.Body) and the
// decode/encode/emit packages. A Value is the sum type Null, Bool, Number,
// String, Array, or Object — the same shape the teacher's checker.go
// resolves expressions down to, minus anything BuildKit-specific.
package value

import (
	"fmt"
	"math/big"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable node in the data model. Zero value is Null.
type Value struct {
	kind   Kind
	b      bool
	num    *big.Float
	str    string
	arr    []Value
	obj    *Object
}

// Object is an insertion-ordered string-keyed map, the representation
// spec.md §3 requires so that "for k, v in obj" and emit both observe
// attribute/block declaration order rather than a random map order.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or updates key, preserving first-insertion order on update.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value at key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberFromInt64 wraps a signed 64-bit integer. Per spec.md §3/§9,
// integers in the native 64-bit range are preserved exactly rather than
// round-tripped through float64.
func NumberFromInt64(i int64) Value {
	return Value{kind: KindNumber, num: new(big.Float).SetInt64(i)}
}

// NumberFromFloat wraps a float64, used for fractional and out-of-range
// numeric literals.
func NumberFromFloat(f float64) Value {
	return Value{kind: KindNumber, num: big.NewFloat(f)}
}

// NumberFromBigFloat wraps an arbitrary-precision float directly, used
// by the parser when Options.PreserveNumberPrecision keeps a literal's
// full decimal text instead of narrowing it to float64.
func NumberFromBigFloat(f *big.Float) Value {
	return Value{kind: KindNumber, num: f}
}

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array wraps a slice of Values, copying it to preserve immutability.
func Array(items []Value) Value {
	cp := append([]Value(nil), items...)
	return Value{kind: KindArray, arr: cp}
}

// ObjectVal wraps an *Object.
func ObjectVal(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) Number() (*big.Float, bool) {
	if v.kind != KindNumber {
		return nil, false
	}
	return v.num, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) Object() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports deep structural equality, matching object key order but
// not comparing any position/source metadata (that lives on ast nodes,
// never on Value).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		if a.num == nil || b.num == nil {
			return a.num == b.num
		}
		return a.num.Cmp(b.num) == 0
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ak, bk := a.obj.Keys(), b.obj.Keys()
		if len(ak) != len(bk) {
			return false
		}
		for i, k := range ak {
			if bk[i] != k {
				return false
			}
			av, _ := a.obj.Get(k)
			bv, _ := b.obj.Get(k)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// String implements fmt.Stringer with a debug-oriented (not canonical
// emit) rendering, handy in test failure messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindNumber:
		return v.num.Text('g', -1)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindArray:
		return fmt.Sprintf("%v", v.arr)
	case KindObject:
		return fmt.Sprintf("object(%d keys)", v.obj.Len())
	default:
		return "<invalid>"
	}
}
