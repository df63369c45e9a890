// Package decode implements the structured-data bridge's decoding half
// (spec.md §4.E, component E): mapping a Body or Value into a caller's
// own record type. There is no reflection or struct-tag "derive" here —
// spec.md §9 mandates a capability-based visitor protocol instead, the
// same contract-over-reflection preference the teacher shows everywhere
// it drives over its own AST (ast/ast.go's hand-written accessors rather
// than a generic walker).
//
// A target type answers only the callbacks it understands by
// implementing the corresponding small interface (NullVisitor,
// AttributeVisitor, and so on); Decode/DecodeValue type-assert for each
// one rather than requiring a single fat interface.
package decode

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/diagnostic"
	"github.com/eldrevo/hclcore/value"
)

// PathElem is one step of a decode error's location (spec.md §7 "path
// records the chain of attribute/index names").
type PathElem interface {
	fmt.Stringer
	pathElem()
}

// AttrPathElem names an attribute or block field step.
type AttrPathElem struct{ Name string }

func (AttrPathElem) pathElem()        {}
func (e AttrPathElem) String() string { return e.Name }

// IndexPathElem names a sequence index step.
type IndexPathElem struct{ Index int }

func (IndexPathElem) pathElem()        {}
func (e IndexPathElem) String() string { return fmt.Sprintf("[%d]", e.Index) }

// Path is an ordered chain of PathElem, rendered dotted/indexed
// (`a.b[2].c`) by String.
type Path []PathElem

func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		s := e.String()
		if _, idx := e.(IndexPathElem); idx {
			b.WriteString(s)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s)
	}
	return b.String()
}

// Append returns a new Path with elem appended, leaving p untouched.
func (p Path) Append(elem PathElem) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, elem)
}

// Kind discriminates the DecodeError variants spec.md §7 enumerates.
type Kind int

const (
	UnknownField Kind = iota
	MissingField
	TypeMismatch
	Custom
)

// Error is the DecodeError spec.md §7 describes: one of
// {UnknownField, MissingField, TypeMismatch, Custom}, carrying the Path
// at which it occurred.
type Error struct {
	Kind              Kind
	Path              Path
	Name              string // UnknownField / MissingField
	Expected, Got     string // TypeMismatch
	Err               error  // Custom, or the wrapped cause of any kind
}

func (e *Error) Error() string {
	loc := e.Path.String()
	if loc != "" {
		loc += ": "
	}
	switch e.Kind {
	case UnknownField:
		return fmt.Sprintf("%sunknown field %q", loc, e.Name)
	case MissingField:
		return fmt.Sprintf("%smissing required field %q", loc, e.Name)
	case TypeMismatch:
		return fmt.Sprintf("%sexpected %s, got %s", loc, e.Expected, e.Got)
	default:
		return fmt.Sprintf("%s%s", loc, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func unknownFieldErr(path Path, name string, candidates []string) *Error {
	e := &Error{Kind: UnknownField, Path: path, Name: name}
	if s := diagnostic.Suggestion(name, candidates); s != "" {
		e.Err = fmt.Errorf("unknown field %q, did you mean %q?", name, s)
	}
	return e
}

func missingFieldErr(path Path, name string) *Error {
	return &Error{Kind: MissingField, Path: path, Name: name}
}

func typeMismatchErr(path Path, expected, got string) *Error {
	return &Error{Kind: TypeMismatch, Path: path, Expected: expected, Got: got}
}

func customErr(path Path, err error) *Error {
	return &Error{Kind: Custom, Path: path, Err: err}
}

// Schema lets a target declare the attribute/block names it accepts and
// whether unrecognized names are an error (closed) or ignored (open).
// This resolves spec.md §4.E's "target declares closed-schema" as an
// explicit method rather than an inferred reflection tag, per spec.md §9.
type Schema interface {
	KnownFields() (names []string, closed bool)
}

// RequiredSchema additionally declares which known fields must appear at
// least once, backing spec.md §4.E's MissingField diagnostic.
type RequiredSchema interface {
	RequiredFields() []string
}

// NullVisitor, BoolVisitor, NumberVisitor, and StringVisitor answer
// value-mode leaves (spec.md §9's visit_null/visit_bool/visit_number/
// visit_string).
type NullVisitor interface{ VisitNull() error }
type BoolVisitor interface{ VisitBool(b bool) error }
type NumberVisitor interface{ VisitNumber(n *big.Float) error }
type StringVisitor interface{ VisitString(s string) error }

// SequenceVisitor answers a value-mode array (spec.md §9's
// visit_sequence(next)): it receives every element Value in order.
type SequenceVisitor interface {
	VisitSequence(items []value.Value) error
}

// MapVisitor answers a value-mode object (spec.md §9's
// visit_map(next)): it receives every key/Value pair in insertion order.
type MapVisitor interface {
	VisitMap(obj *value.Object) error
}

// AttributeVisitor answers one structural-mode attribute (spec.md §9's
// visit_attribute(name, expr)). It is called once per attribute
// occurrence, in source order, so a sequence-typed field can accumulate
// duplicates itself while a scalar field naturally ends up with the
// last call's value winning (spec.md §4.E's documented duplicate
// policy) — the decoder itself performs no deduplication.
type AttributeVisitor interface {
	VisitAttribute(name string, expr ast.Expression) error
}

// BlockVisitor answers one structural-mode block (spec.md §9's
// visit_block(name, labels, body)), called once per block occurrence.
type BlockVisitor interface {
	VisitBlock(name string, labels []string, body *ast.Body) error
}

// Body implements parse_body's decode step: it drives target over b's
// attributes and blocks (structural mode). Unknown names are reported
// per Schema; required names per RequiredSchema; everything else is
// left entirely to whichever Visitor interfaces target implements.
func Body(b *ast.Body, target interface{}) error {
	return decodeBody(nil, b, target)
}

func decodeBody(path Path, b *ast.Body, target interface{}) error {
	names, closed := schemaOf(target)
	seen := make(map[string]bool)

	for _, s := range b.Structures {
		switch s := s.(type) {
		case *ast.Attribute:
			if names != nil && !contains(names, s.Name) {
				if closed {
					return unknownFieldErr(path, s.Name, names)
				}
				continue
			}
			seen[s.Name] = true
			if av, ok := target.(AttributeVisitor); ok {
				if err := av.VisitAttribute(s.Name, s.Value); err != nil {
					return wrapAt(path.Append(AttrPathElem{s.Name}), err)
				}
			}
		case *ast.Block:
			if names != nil && !contains(names, s.Type) {
				if closed {
					return unknownFieldErr(path, s.Type, names)
				}
				continue
			}
			seen[s.Type] = true
			if bv, ok := target.(BlockVisitor); ok {
				labels := make([]string, len(s.Labels))
				for i, l := range s.Labels {
					labels[i] = l.Value
				}
				if err := bv.VisitBlock(s.Type, labels, s.Body); err != nil {
					return wrapAt(path.Append(AttrPathElem{s.Type}), err)
				}
			}
		}
	}

	if rs, ok := target.(RequiredSchema); ok {
		for _, name := range rs.RequiredFields() {
			if !seen[name] {
				return missingFieldErr(path, name)
			}
		}
	}
	return nil
}

func schemaOf(target interface{}) (names []string, closed bool) {
	s, ok := target.(Schema)
	if !ok {
		return nil, false
	}
	names, closed = s.KnownFields()
	return names, closed
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// wrapAt attaches path to err unless err is already a located *Error
// (preserving the deepest location per spec.md §7).
func wrapAt(path Path, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*Error); ok {
		return de
	}
	return customErr(path, err)
}

// Value implements the value-mode half of decode(): it drives target
// over v, dispatching to whichever leaf/sequence/map Visitor interface
// target implements and failing with TypeMismatch otherwise.
func Value(v value.Value, target interface{}) error {
	return decodeValue(nil, v, target)
}

func decodeValue(path Path, v value.Value, target interface{}) error {
	switch v.Kind() {
	case value.KindNull:
		if nv, ok := target.(NullVisitor); ok {
			return wrapAt(path, nv.VisitNull())
		}
	case value.KindBool:
		if bv, ok := target.(BoolVisitor); ok {
			b, _ := v.Bool()
			return wrapAt(path, bv.VisitBool(b))
		}
	case value.KindNumber:
		if nv, ok := target.(NumberVisitor); ok {
			n, _ := v.Number()
			return wrapAt(path, nv.VisitNumber(n))
		}
	case value.KindString:
		if sv, ok := target.(StringVisitor); ok {
			s, _ := v.Str()
			return wrapAt(path, sv.VisitString(s))
		}
	case value.KindArray:
		if sv, ok := target.(SequenceVisitor); ok {
			items, _ := v.Array()
			return wrapAt(path, sv.VisitSequence(items))
		}
	case value.KindObject:
		if mv, ok := target.(MapVisitor); ok {
			obj, _ := v.Object()
			return wrapAt(path, mv.VisitMap(obj))
		}
	}
	return typeMismatchErr(path, fmt.Sprintf("a type accepting %s", v.Kind()), v.Kind().String())
}
