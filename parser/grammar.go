package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar below is the "concrete syntax tree" spec.md §4.A calls the
// grammar engine's output: participle struct tags double as the PEG-style
// productions (ExprTerm, suffix operators, the right-recursive binary
// chain) and participle's reflection-driven parse IS the tree-construction
// step. lower.go (spec.md §4.B, the AST builder) walks this tree once more
// to produce the semantic ast.* sum types — escapes unprocessed, numbers
// un-parsed, templates unsplit, traversal suffixes uncollapsed. That keeps
// the "grammar" and "AST builder" concerns in two files even though they
// share one package, the same split the teacher keeps between cst.go
// (grammar) and checker.go (semantic pass over the same tree).

// rawBody is the entry production for parse_body.
type rawBody struct {
	Pos        lexer.Position
	Structures []*rawStructure `parser:"@@*"`
}

type rawStructure struct {
	Pos       lexer.Position
	Attribute *rawAttribute `parser:"(   @@"`
	Block     *rawBlock     `parser:"  | @@ )"`
}

type rawAttribute struct {
	Pos   lexer.Position
	Name  string    `parser:"@Ident \"=\""`
	Value *rawExpr  `parser:"@@"`
}

type rawBlock struct {
	Pos    lexer.Position
	Name   string        `parser:"@Ident"`
	Labels []*rawLabel   `parser:"@@*"`
	Body   *rawBraceBody `parser:"@@"`
}

type rawLabel struct {
	Pos    lexer.Position
	Quoted *string `parser:"(  @String"`
	Bare   *string `parser:" | @Ident )"`
}

type rawBraceBody struct {
	Pos        lexer.Position
	Structures []*rawStructure `parser:"\"{\" @@* \"}\""`
}

// rawExpr models spec.md §4.B's note that the surface grammar is
// right-recursive (`ExprTerm ~ (Op ~ Expression)?`). Since Rhs is itself a
// rawExpr, a trailing `? :` is captured by the right operand; lower.expr
// hoists that conditional above the binary operator, so the ternary
// binds looser than any binary operator.
type rawExpr struct {
	Pos   lexer.Position
	Unary *rawUnaryExpr `parser:"@@"`
	BinOp *string       `parser:"( @(\"==\" | \"!=\" | \"<=\" | \">=\" | \"<\" | \">\" | \"+\" | \"-\" | \"*\" | \"/\" | \"%\" | \"&&\" | \"||\")"`
	Rhs   *rawExpr      `parser:"  @@ )?"`
	Then  *rawExpr      `parser:"( \"?\" @@"`
	Else  *rawExpr      `parser:"  \":\" @@ )?"`
}

type rawUnaryExpr struct {
	Pos  lexer.Position
	Op   *string      `parser:"@(\"-\" | \"!\")?"`
	Term *rawExprTerm `parser:"@@"`
}

// rawExprTerm is a base plus an ordered suffix list, modeling the
// Traversal chain as base+suffixes rather than a recursive tree (spec.md
// §9 "Traversal chain").
type rawExprTerm struct {
	Pos      lexer.Position
	Base     *rawExprBase `parser:"@@"`
	Suffixes []*rawSuffix `parser:"@@*"`
}

type rawExprBase struct {
	Pos       lexer.Position
	Null      *string       `parser:"(   @\"null\""`
	True      *string       `parser:" | @\"true\""`
	False     *string       `parser:" | @\"false\""`
	Heredoc   *string       `parser:" | @Heredoc"`
	Str       *string       `parser:" | @String"`
	Num       *string       `parser:" | @Number"`
	ForTuple  *rawForTuple  `parser:" | @@"`
	ForObject *rawForObject `parser:" | @@"`
	Array     *rawArray     `parser:" | @@"`
	Object    *rawObject    `parser:" | @@"`
	Paren     *rawParen     `parser:" | @@"`
	Call      *rawCallOrVar `parser:" | @@ )"`
}

// rawCallOrVar captures both Variable(identifier) and
// FuncCall(identifier, args, expand_final) — they share an identifier
// prefix and only diverge on an optional parenthesized argument list.
type rawCallOrVar struct {
	Pos  lexer.Position
	Name string       `parser:"@Ident"`
	Args *rawCallArgs `parser:"@@?"`
}

type rawCallArgs struct {
	Pos         lexer.Position
	Args        []*rawExpr `parser:"\"(\" ( @@ ( \",\" @@ )* )?"`
	ExpandFinal bool       `parser:"( @\"...\" )? \",\"? \")\""`
}

type rawForTuple struct {
	Pos        lexer.Position
	KeyIdent   *string  `parser:"\"[\" \"for\" ( @Ident \",\" )?"`
	ValueIdent string   `parser:"@Ident \"in\""`
	Collection *rawExpr `parser:"@@ \":\""`
	Projection *rawExpr `parser:"@@"`
	Cond       *rawExpr `parser:"( \"if\" @@ )?"`
	End        string   `parser:"\"]\""`
}

type rawForObject struct {
	Pos             lexer.Position
	KeyIdent        *string  `parser:"\"{\" \"for\" ( @Ident \",\" )?"`
	ValueIdent      string   `parser:"@Ident \"in\""`
	Collection      *rawExpr `parser:"@@ \":\""`
	KeyProjection   *rawExpr `parser:"@@ \"=\" \">\""`
	ValueProjection *rawExpr `parser:"@@"`
	Grouping        bool     `parser:"@\"...\"?"`
	Cond            *rawExpr `parser:"( \"if\" @@ )?"`
	End             string   `parser:"\"}\""`
}

type rawArray struct {
	Pos   lexer.Position
	Items []*rawExpr `parser:"\"[\" ( @@ ( \",\" @@ )* \",\"? )? \"]\""`
}

type rawObject struct {
	Pos   lexer.Position
	Items []*rawObjectItem `parser:"\"{\" ( @@ ( \",\" @@ )* \",\"? )? \"}\""`
}

type rawObjectItem struct {
	Pos      lexer.Position
	IdentKey *string  `parser:"(   @Ident"`
	ExprKey  *rawExpr `parser:" | @@ )"`
	Value    *rawExpr `parser:"( \"=\" | \":\" ) @@"`
}

type rawParen struct {
	Pos   lexer.Position
	Inner *rawExpr `parser:"\"(\" @@ \")\""`
}

// rawSuffix is one Traversal operator: GetAttr, Index, LegacyIndex,
// AttrSplat, or FullSplat (spec.md §3). `.0` lexes as a dedicated
// LegacyIndex token (lexer.go's scanLegacyIndex) rather than `.` + Ident,
// since an Ident can never start with a digit.
type rawSuffix struct {
	Pos       lexer.Position
	AttrSplat bool     `parser:"(   \".\" \"*\""`
	Attr      *string  `parser:" | \".\" @Ident"`
	Legacy    *string  `parser:" | @LegacyIndex"`
	FullSplat bool     `parser:" | \"[\" \"*\" \"]\""`
	Index     *rawExpr `parser:" | \"[\" @@ \"]\" )"`
}

// Parser parses HCL bodies into the concrete syntax tree rooted at
// rawBody.
var Parser = participle.MustBuild[rawBody](
	participle.Lexer(Lexer),
	participle.UseLookahead(1024),
)

// exprParser parses a single expression. parseExprText uses it for the
// payload of every template interpolation and directive (spec.md §6), so
// those are parsed in isolation without re-entering the body grammar;
// attribute values are parsed by Parser as part of rawAttribute.
var exprParser = participle.MustBuild[rawExpr](
	participle.Lexer(Lexer),
	participle.UseLookahead(1024),
)
