// Package ast holds the structural model and expression AST spec.md §3
// and §4.B describe: Body/Attribute/Block on the structural side,
// Expression and its variants on the value side. Nodes are built by
// parser.lower from the participle concrete syntax tree; nothing in this
// package depends on participle.
package ast

import "github.com/alecthomas/participle/v2/lexer"

// Body is an ordered sequence of Structures — the root of any parsed
// document and of every block's contents (spec.md §3 "Body").
type Body struct {
	Pos        lexer.Position
	Structures []Structure
}

// Attributes returns every Attribute in the body in declaration order.
func (b *Body) Attributes() []*Attribute {
	var out []*Attribute
	for _, s := range b.Structures {
		if a, ok := s.(*Attribute); ok {
			out = append(out, a)
		}
	}
	return out
}

// Blocks returns every Block in the body in declaration order.
func (b *Body) Blocks() []*Block {
	var out []*Block
	for _, s := range b.Structures {
		if blk, ok := s.(*Block); ok {
			out = append(out, blk)
		}
	}
	return out
}

// BlocksOfType returns every Block whose Type matches name, in order.
func (b *Body) BlocksOfType(name string) []*Block {
	var out []*Block
	for _, blk := range b.Blocks() {
		if blk.Type == name {
			out = append(out, blk)
		}
	}
	return out
}

// Attribute returns the last Attribute named name, matching spec.md §3's
// "last write wins" duplicate-attribute rule, and whether it was found.
func (b *Body) Attribute(name string) (*Attribute, bool) {
	var found *Attribute
	for _, a := range b.Attributes() {
		if a.Name == name {
			a := a
			found = a
		}
	}
	return found, found != nil
}

// Structure is the sum type of Attribute and Block.
type Structure interface {
	structure()
	Position() lexer.Position
}

// Attribute is a `name = expr` declaration.
type Attribute struct {
	Pos   lexer.Position
	Name  string
	Value Expression
}

func (*Attribute) structure()                  {}
func (a *Attribute) Position() lexer.Position { return a.Pos }

// Block is a `type "label"... { ... }` declaration. Labels preserve both
// their text and whether they were written quoted, since emit.go needs
// to reproduce that (spec.md §3 "Block").
type Block struct {
	Pos    lexer.Position
	Type   string
	Labels []Label
	Body   *Body
}

func (*Block) structure()                  {}
func (b *Block) Position() lexer.Position { return b.Pos }

// Label is one block label, `"foo"` (quoted) or a bare identifier.
type Label struct {
	Value  string
	Quoted bool
}

// Expression is the sum type of every expression form spec.md §3 and §9
// define: literal values, templates, collections, variables, calls,
// operators, traversals, and comprehensions.
type Expression interface {
	expression()
	Position() lexer.Position
}

// LiteralExpr wraps a null, bool, or number literal — string literals
// without interpolation are LiteralExpr too, folded down from a
// single-part TemplateExpr by the AST builder (spec.md §4.B).
type LiteralExpr struct {
	Pos lexer.Position
	// Kind is one of "null", "bool", "number", "string".
	Kind string
	Bool bool
	// NumberText preserves the literal's original decimal text so the
	// AST builder (or a caller with PreserveNumberPrecision set) can
	// parse it at full precision instead of narrowing to float64.
	NumberText string
	Str        string
}

func (*LiteralExpr) expression()                  {}
func (e *LiteralExpr) Position() lexer.Position { return e.Pos }

// TemplateExpr is a quoted-string or heredoc template: an ordered list of
// literal, interpolation, and directive parts (spec.md §6).
type TemplateExpr struct {
	Pos   lexer.Position
	Parts []TemplatePart
	// Heredoc records whether this template was written as a heredoc,
	// and whether it used the `<<-` indent-strip marker, purely so
	// emit.go can reproduce the original form.
	Heredoc    bool
	Indented   bool
	Terminator string
}

func (*TemplateExpr) expression()                  {}
func (e *TemplateExpr) Position() lexer.Position { return e.Pos }

// TemplatePart is one piece of a TemplateExpr.
type TemplatePart interface {
	templatePart()
}

// LiteralPart is raw, already-unescaped template text.
type LiteralPart struct {
	Text string
}

func (LiteralPart) templatePart() {}

// InterpPart is a `${ expr }` or `${~ expr ~}` interpolation.
type InterpPart struct {
	Expr       Expression
	StripLeft  bool
	StripRight bool
}

func (InterpPart) templatePart() {}

// DirectivePart is a `%{if}/%{else}/%{endif}` or `%{for}/%{endfor}`
// control directive (spec.md §6). Evaluation is out of scope; the
// parser only needs to retain its structure for re-emission.
type DirectivePart struct {
	// Kind is one of "if", "for".
	Kind string

	// if
	Cond      Expression
	Then      []TemplatePart
	Else      []TemplatePart
	HasElse   bool

	// for
	KeyIdent   string
	ValueIdent string
	Collection Expression
	Body       []TemplatePart

	StripLeft  bool
	StripRight bool
}

func (DirectivePart) templatePart() {}

// ArrayExpr is a `[ expr, ... ]` tuple literal.
type ArrayExpr struct {
	Pos   lexer.Position
	Items []Expression
}

func (*ArrayExpr) expression()                  {}
func (e *ArrayExpr) Position() lexer.Position { return e.Pos }

// ObjectExpr is a `{ key = expr, ... }` object literal.
type ObjectExpr struct {
	Pos   lexer.Position
	Items []ObjectItem
}

func (*ObjectExpr) expression()                  {}
func (e *ObjectExpr) Position() lexer.Position { return e.Pos }

// ObjectItem is one `key = expr` or `(expr) = expr` entry. KeyExpr is set
// when the key was written as a parenthesized/computed expression rather
// than a bare identifier or quoted string (spec.md §3 "ObjectItem").
type ObjectItem struct {
	KeyName string
	KeyExpr Expression
	Value   Expression
}

// Variable is a bare identifier reference.
type Variable struct {
	Pos  lexer.Position
	Name string
}

func (*Variable) expression()                  {}
func (e *Variable) Position() lexer.Position { return e.Pos }

// FunctionCall is `name(args...)`, with ExpandFinal set when the last
// argument is followed by `...` (spec.md §3 "expand_final").
type FunctionCall struct {
	Pos         lexer.Position
	Name        string
	Args        []Expression
	ExpandFinal bool
}

func (*FunctionCall) expression()                  {}
func (e *FunctionCall) Position() lexer.Position { return e.Pos }

// UnaryExpr is `-expr` or `!expr`.
type UnaryExpr struct {
	Pos lexer.Position
	Op  string
	Rhs Expression
}

func (*UnaryExpr) expression()                  {}
func (e *UnaryExpr) Position() lexer.Position { return e.Pos }

// BinaryExpr is `lhs OP rhs`. The AST builder preserves the grammar's
// right-recursive surface shape rather than reshaping by precedence —
// see DESIGN.md for why.
type BinaryExpr struct {
	Pos lexer.Position
	Op  string
	Lhs Expression
	Rhs Expression
}

func (*BinaryExpr) expression()                  {}
func (e *BinaryExpr) Position() lexer.Position { return e.Pos }

// ConditionalExpr is `cond ? then : else`.
type ConditionalExpr struct {
	Pos  lexer.Position
	Cond Expression
	Then Expression
	Else Expression
}

func (*ConditionalExpr) expression()                  {}
func (e *ConditionalExpr) Position() lexer.Position { return e.Pos }

// ParenExpr is a parenthesized expression, kept as its own node (rather
// than collapsed away) so emit.go can round-trip the parentheses.
type ParenExpr struct {
	Pos   lexer.Position
	Inner Expression
}

func (*ParenExpr) expression()                  {}
func (e *ParenExpr) Position() lexer.Position { return e.Pos }

// TraversalExpr is a base expression followed by one or more suffix
// operators: GetAttr, Index, LegacyIndex, AttrSplat, FullSplat
// (spec.md §3 "Traversal", §9).
type TraversalExpr struct {
	Pos      lexer.Position
	Base     Expression
	Suffixes []Traverser
}

func (*TraversalExpr) expression()                  {}
func (e *TraversalExpr) Position() lexer.Position { return e.Pos }

// Traverser is one suffix operator in a traversal chain.
type Traverser interface {
	traverser()
}

type GetAttr struct{ Name string }
type Index struct{ Key Expression }
type LegacyIndex struct{ Index int }
type AttrSplat struct{}
type FullSplat struct{}

func (GetAttr) traverser()     {}
func (Index) traverser()       {}
func (LegacyIndex) traverser() {}
func (AttrSplat) traverser()   {}
func (FullSplat) traverser()   {}

// ForTupleExpr is `[for k?, v in coll : expr (if cond)?]`.
type ForTupleExpr struct {
	Pos        lexer.Position
	KeyIdent   string
	ValueIdent string
	Collection Expression
	Value      Expression
	Cond       Expression
}

func (*ForTupleExpr) expression()                  {}
func (e *ForTupleExpr) Position() lexer.Position { return e.Pos }

// ForObjectExpr is `{for k?, v in coll : key => value (...)?  (if cond)?}`.
type ForObjectExpr struct {
	Pos        lexer.Position
	KeyIdent   string
	ValueIdent string
	Collection Expression
	Key        Expression
	Value      Expression
	Grouping   bool
	Cond       Expression
}

func (*ForObjectExpr) expression()                  {}
func (e *ForObjectExpr) Position() lexer.Position { return e.Pos }
