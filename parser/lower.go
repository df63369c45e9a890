package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/lithammer/dedent"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/options"
)

// lower walks the participle concrete syntax tree (grammar.go) and builds
// the semantic ast.* tree spec.md §4.B calls the AST builder: escapes are
// processed, numbers keep their source text for the caller to parse at
// whatever precision Options requests, heredocs are dedented, and
// templates are split into literal/interpolation/directive parts.
//
// depth tracks current expression-nesting recursion so expr can enforce
// opts.MaxDepth (spec.md §5's stack-exhaustion guard) instead of letting
// a pathologically nested input recurse the Go call stack unbounded.
type lower struct {
	filename string
	opts     options.Options
	depth    int
}

func lowerBody(raw *rawBody, opts options.Options) (*ast.Body, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = options.Default().MaxDepth
	}
	lo := &lower{opts: opts}
	if len(raw.Structures) > 0 {
		lo.filename = raw.Structures[0].Pos.Filename
	} else {
		lo.filename = raw.Pos.Filename
	}
	return lo.body(raw)
}

func (lo *lower) body(raw *rawBody) (*ast.Body, error) {
	b := &ast.Body{Pos: raw.Pos}
	for _, s := range raw.Structures {
		structure, err := lo.structure(s)
		if err != nil {
			return nil, err
		}
		b.Structures = append(b.Structures, structure)
	}
	return b, nil
}

func (lo *lower) structure(raw *rawStructure) (ast.Structure, error) {
	switch {
	case raw.Attribute != nil:
		return lo.attribute(raw.Attribute)
	case raw.Block != nil:
		return lo.block(raw.Block)
	default:
		return nil, fmt.Errorf("%s malformed structure", FormatPos(raw.Pos))
	}
}

func (lo *lower) attribute(raw *rawAttribute) (*ast.Attribute, error) {
	value, err := lo.expr(raw.Value)
	if err != nil {
		return nil, err
	}
	return &ast.Attribute{Pos: raw.Pos, Name: raw.Name, Value: value}, nil
}

func (lo *lower) block(raw *rawBlock) (*ast.Block, error) {
	labels := make([]ast.Label, 0, len(raw.Labels))
	for _, l := range raw.Labels {
		labels = append(labels, lo.label(l))
	}
	body, err := lo.body(&rawBody{Pos: raw.Body.Pos, Structures: raw.Body.Structures})
	if err != nil {
		return nil, err
	}
	return &ast.Block{Pos: raw.Pos, Type: raw.Name, Labels: labels, Body: body}, nil
}

func (lo *lower) label(raw *rawLabel) ast.Label {
	if raw.Quoted != nil {
		text, _ := unquote(*raw.Quoted, lo.opts)
		return ast.Label{Value: text, Quoted: true}
	}
	return ast.Label{Value: *raw.Bare, Quoted: false}
}

// expr lowers the right-recursive surface grammar directly into a
// right-leaning BinaryExpr/ConditionalExpr chain. spec.md leaves
// reshaping by precedence as an Open Question; DESIGN.md records the
// decision to keep the surface shape rather than reshape it.
func (lo *lower) expr(raw *rawExpr) (ast.Expression, error) {
	lo.depth++
	defer func() { lo.depth-- }()
	if lo.depth > lo.opts.MaxDepth {
		return nil, fmt.Errorf("%s expression nesting exceeds max depth %d", FormatPos(raw.Pos), lo.opts.MaxDepth)
	}

	lhs, err := lo.unary(raw.Unary)
	if err != nil {
		return nil, err
	}

	result := lhs
	if raw.BinOp != nil && raw.Rhs != nil {
		rhs, err := lo.expr(raw.Rhs)
		if err != nil {
			return nil, err
		}
		// The right operand's grammar absorbs a trailing `? :`; hoist that
		// conditional above this operator so the ternary binds looser
		// than any binary operator.
		if c, ok := rhs.(*ast.ConditionalExpr); ok {
			c.Cond = &ast.BinaryExpr{Pos: raw.Pos, Op: *raw.BinOp, Lhs: lhs, Rhs: c.Cond}
			c.Pos = raw.Pos
			result = c
		} else {
			result = &ast.BinaryExpr{Pos: raw.Pos, Op: *raw.BinOp, Lhs: lhs, Rhs: rhs}
		}
	}

	if raw.Then != nil && raw.Else != nil {
		then, err := lo.expr(raw.Then)
		if err != nil {
			return nil, err
		}
		els, err := lo.expr(raw.Else)
		if err != nil {
			return nil, err
		}
		result = &ast.ConditionalExpr{Pos: raw.Pos, Cond: result, Then: then, Else: els}
	}

	return result, nil
}

func (lo *lower) unary(raw *rawUnaryExpr) (ast.Expression, error) {
	term, err := lo.term(raw.Term)
	if err != nil {
		return nil, err
	}
	if raw.Op != nil {
		return &ast.UnaryExpr{Pos: raw.Pos, Op: *raw.Op, Rhs: term}, nil
	}
	return term, nil
}

func (lo *lower) term(raw *rawExprTerm) (ast.Expression, error) {
	base, err := lo.base(raw.Base)
	if err != nil {
		return nil, err
	}
	if len(raw.Suffixes) == 0 {
		return base, nil
	}
	suffixes := make([]ast.Traverser, 0, len(raw.Suffixes))
	for _, s := range raw.Suffixes {
		t, err := lo.suffix(s)
		if err != nil {
			return nil, err
		}
		suffixes = append(suffixes, t)
	}
	return &ast.TraversalExpr{Pos: raw.Pos, Base: base, Suffixes: suffixes}, nil
}

func (lo *lower) suffix(raw *rawSuffix) (ast.Traverser, error) {
	switch {
	case raw.AttrSplat:
		return ast.AttrSplat{}, nil
	case raw.FullSplat:
		return ast.FullSplat{}, nil
	case raw.Attr != nil:
		return ast.GetAttr{Name: *raw.Attr}, nil
	case raw.Legacy != nil:
		n, err := strconv.Atoi(*raw.Legacy)
		if err != nil {
			return nil, fmt.Errorf("%s malformed legacy index %q", FormatPos(raw.Pos), *raw.Legacy)
		}
		return ast.LegacyIndex{Index: n}, nil
	case raw.Index != nil:
		key, err := lo.expr(raw.Index)
		if err != nil {
			return nil, err
		}
		return ast.Index{Key: key}, nil
	default:
		return nil, fmt.Errorf("%s malformed traversal suffix", FormatPos(raw.Pos))
	}
}

func (lo *lower) base(raw *rawExprBase) (ast.Expression, error) {
	switch {
	case raw.Null != nil:
		return &ast.LiteralExpr{Pos: raw.Pos, Kind: "null"}, nil
	case raw.True != nil:
		return &ast.LiteralExpr{Pos: raw.Pos, Kind: "bool", Bool: true}, nil
	case raw.False != nil:
		return &ast.LiteralExpr{Pos: raw.Pos, Kind: "bool", Bool: false}, nil
	case raw.Num != nil:
		return &ast.LiteralExpr{Pos: raw.Pos, Kind: "number", NumberText: *raw.Num}, nil
	case raw.Str != nil:
		return parseQuotedTemplate(raw.Pos, *raw.Str, lo.opts)
	case raw.Heredoc != nil:
		return parseHeredocTemplate(raw.Pos, *raw.Heredoc, lo.opts)
	case raw.ForTuple != nil:
		return lo.forTuple(raw.ForTuple)
	case raw.ForObject != nil:
		return lo.forObject(raw.ForObject)
	case raw.Array != nil:
		return lo.array(raw.Array)
	case raw.Object != nil:
		return lo.object(raw.Object)
	case raw.Paren != nil:
		inner, err := lo.expr(raw.Paren.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Pos: raw.Pos, Inner: inner}, nil
	case raw.Call != nil:
		return lo.callOrVar(raw.Call)
	default:
		return nil, fmt.Errorf("%s malformed expression", FormatPos(raw.Pos))
	}
}

func (lo *lower) callOrVar(raw *rawCallOrVar) (ast.Expression, error) {
	if raw.Args == nil {
		return &ast.Variable{Pos: raw.Pos, Name: raw.Name}, nil
	}
	args := make([]ast.Expression, 0, len(raw.Args.Args))
	for _, a := range raw.Args.Args {
		e, err := lo.expr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return &ast.FunctionCall{
		Pos:         raw.Pos,
		Name:        raw.Name,
		Args:        args,
		ExpandFinal: raw.Args.ExpandFinal,
	}, nil
}

func (lo *lower) forTuple(raw *rawForTuple) (ast.Expression, error) {
	coll, err := lo.expr(raw.Collection)
	if err != nil {
		return nil, err
	}
	val, err := lo.expr(raw.Projection)
	if err != nil {
		return nil, err
	}
	var cond ast.Expression
	if raw.Cond != nil {
		cond, err = lo.expr(raw.Cond)
		if err != nil {
			return nil, err
		}
	}
	var key string
	if raw.KeyIdent != nil {
		key = *raw.KeyIdent
	}
	return &ast.ForTupleExpr{
		Pos:        raw.Pos,
		KeyIdent:   key,
		ValueIdent: raw.ValueIdent,
		Collection: coll,
		Value:      val,
		Cond:       cond,
	}, nil
}

func (lo *lower) forObject(raw *rawForObject) (ast.Expression, error) {
	coll, err := lo.expr(raw.Collection)
	if err != nil {
		return nil, err
	}
	key, err := lo.expr(raw.KeyProjection)
	if err != nil {
		return nil, err
	}
	val, err := lo.expr(raw.ValueProjection)
	if err != nil {
		return nil, err
	}
	var cond ast.Expression
	if raw.Cond != nil {
		cond, err = lo.expr(raw.Cond)
		if err != nil {
			return nil, err
		}
	}
	var keyIdent string
	if raw.KeyIdent != nil {
		keyIdent = *raw.KeyIdent
	}
	return &ast.ForObjectExpr{
		Pos:        raw.Pos,
		KeyIdent:   keyIdent,
		ValueIdent: raw.ValueIdent,
		Collection: coll,
		Key:        key,
		Value:      val,
		Grouping:   raw.Grouping,
		Cond:       cond,
	}, nil
}

func (lo *lower) array(raw *rawArray) (ast.Expression, error) {
	items := make([]ast.Expression, 0, len(raw.Items))
	for _, i := range raw.Items {
		e, err := lo.expr(i)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return &ast.ArrayExpr{Pos: raw.Pos, Items: items}, nil
}

func (lo *lower) object(raw *rawObject) (ast.Expression, error) {
	items := make([]ast.ObjectItem, 0, len(raw.Items))
	for _, i := range raw.Items {
		value, err := lo.expr(i.Value)
		if err != nil {
			return nil, err
		}
		item := ast.ObjectItem{Value: value}
		if i.IdentKey != nil {
			item.KeyName = *i.IdentKey
		} else if i.ExprKey != nil {
			keyExpr, err := lo.expr(i.ExprKey)
			if err != nil {
				return nil, err
			}
			item.KeyExpr = keyExpr
		}
		items = append(items, item)
	}
	return &ast.ObjectExpr{Pos: raw.Pos, Items: items}, nil
}

// --- templates -------------------------------------------------------

// parseQuotedTemplate lowers a raw String token (including its
// surrounding quotes) into a TemplateExpr, collapsing down to a plain
// LiteralExpr when the template is a single literal part with no
// interpolation or directive — matching how a bare string constant is
// just a literal in most HCL-family implementations.
func parseQuotedTemplate(pos lexer.Position, raw string, opts options.Options) (ast.Expression, error) {
	body := raw[1 : len(raw)-1]
	parts, _, err := scanTemplateParts(pos, body, true, opts)
	if err != nil {
		return nil, err
	}
	return collapseTemplate(pos, parts, false, false, ""), nil
}

// parseHeredocTemplate lowers a raw Heredoc token into a TemplateExpr.
// The token's value is "<<[-]IDENT\n" + body-lines-each-newline-terminated
// + the terminator line as written (its leading whitespace, then IDENT),
// glued with no separator — see lexer.go's scanHeredoc. Indented heredocs (<<-) get their common leading
// whitespace stripped before template parts are split out (spec.md §3's
// `<<-` invariant).
func parseHeredocTemplate(pos lexer.Position, raw string, opts options.Options) (ast.Expression, error) {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		return nil, fmt.Errorf("%s malformed heredoc token", FormatPos(pos))
	}
	header := raw[:nl]
	rest := raw[nl+1:]

	indented := strings.HasPrefix(header, "<<-")
	var ident string
	if indented {
		ident = header[3:]
	} else {
		ident = header[2:]
	}

	if !strings.HasSuffix(rest, ident) {
		return nil, fmt.Errorf("%s malformed heredoc terminator", FormatPos(pos))
	}
	body := rest[:len(rest)-len(ident)]

	if indented {
		body = dedentHeredocBody(body)
	}

	parts, _, err := scanTemplateParts(pos, body, false, opts)
	if err != nil {
		return nil, err
	}
	return collapseTemplate(pos, parts, true, indented, ident), nil
}

// dedentHeredocBody strips the common leading whitespace shared by every
// body line *and* the terminator line (spec.md §3: the terminator's
// indentation participates in the minimum-indentation computation even
// though it never appears in the decoded string). body here is the
// heredoc's content lines followed by the terminator's raw, unstripped
// indentation with no trailing newline (see lexer.go's scanHeredoc).
//
// dedent.Dedent on its own treats whitespace-only lines as blank and
// excludes them from the margin computation, which would silently drop
// the terminator from the calculation. To keep using it correctly, the
// terminator's indentation is given a throwaway non-blank sentinel
// character so it counts as a real line, dedented along with everything
// else, then trimmed back off.
func dedentHeredocBody(body string) string {
	nl := strings.LastIndexByte(body, '\n')
	var lines, terminatorIndent string
	if nl < 0 {
		terminatorIndent = body
	} else {
		lines, terminatorIndent = body[:nl+1], body[nl+1:]
	}

	dedented := dedent.Dedent(lines + terminatorIndent + "x")
	idx := strings.LastIndexByte(dedented, '\n')
	if idx < 0 {
		return ""
	}
	return dedented[:idx+1]
}

func collapseTemplate(pos lexer.Position, parts []ast.TemplatePart, heredoc, indented bool, terminator string) ast.Expression {
	if len(parts) == 0 {
		parts = []ast.TemplatePart{ast.LiteralPart{Text: ""}}
	}
	if !heredoc && len(parts) == 1 {
		if lit, ok := parts[0].(ast.LiteralPart); ok {
			return &ast.LiteralExpr{Pos: pos, Kind: "string", Str: lit.Text}
		}
	}
	return &ast.TemplateExpr{
		Pos:        pos,
		Parts:      parts,
		Heredoc:    heredoc,
		Indented:   indented,
		Terminator: terminator,
	}
}

// tmplScanner walks template body text looking for `${`/`%{` markers.
// Nested braces inside an interpolation or directive are matched by a
// simple depth counter since the inner text is itself a full expression
// that may contain object/array literals.
type tmplScanner struct {
	pos    lexer.Position
	s      string
	i      int
	quoted bool // true for quoted-string templates: backslash escapes apply
	opts   options.Options

	// forCollection stashes the collection expression parsed while
	// handling a %{for} header, since scanDirectiveHeader's return
	// shape (a single Expression) only carries the loop idents.
	forCollection ast.Expression
}

// scanTemplateParts splits body into literal/interpolation/directive
// parts, stopping early (and returning the stop keyword) when it hits a
// %{else}, %{endif}, or %{endfor} belonging to an enclosing directive.
func scanTemplateParts(pos lexer.Position, body string, quoted bool, opts options.Options) ([]ast.TemplatePart, string, error) {
	sc := &tmplScanner{pos: pos, s: body, quoted: quoted, opts: opts}
	return sc.parseUntil()
}

func (sc *tmplScanner) parseUntil(stopWords ...string) ([]ast.TemplatePart, string, error) {
	var parts []ast.TemplatePart
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, ast.LiteralPart{Text: lit.String()})
			lit.Reset()
		}
	}

	for sc.i < len(sc.s) {
		switch {
		case sc.quoted && strings.HasPrefix(sc.s[sc.i:], `\`):
			r, err := sc.unescapeOne()
			if err != nil {
				return nil, "", err
			}
			lit.WriteString(r)

		case strings.HasPrefix(sc.s[sc.i:], "$${"):
			lit.WriteString("${")
			sc.i += 3

		case strings.HasPrefix(sc.s[sc.i:], "%%{"):
			lit.WriteString("%{")
			sc.i += 3

		case strings.HasPrefix(sc.s[sc.i:], "${"):
			flush()
			part, err := sc.scanInterp()
			if err != nil {
				return nil, "", err
			}
			parts = append(parts, part)

		case strings.HasPrefix(sc.s[sc.i:], "%{"):
			keyword, stripLeft := sc.peekDirectiveKeyword()
			for _, stop := range stopWords {
				if keyword == stop {
					flush()
					sc.consumeDirectiveMarker(stripLeft)
					return parts, keyword, nil
				}
			}
			flush()
			part, err := sc.scanDirective(keyword)
			if err != nil {
				return nil, "", err
			}
			parts = append(parts, part)

		default:
			r, size := utf8.DecodeRuneInString(sc.s[sc.i:])
			lit.WriteRune(r)
			sc.i += size
		}
	}

	flush()
	return parts, "", nil
}

// peekDirectiveKeyword reads the directive keyword following `%{` (and
// an optional `~`) without consuming anything, used to decide whether
// this marker closes the caller's enclosing directive.
func (sc *tmplScanner) peekDirectiveKeyword() (string, bool) {
	j := sc.i + 2
	stripLeft := false
	if j < len(sc.s) && sc.s[j] == '~' {
		stripLeft = true
		j++
	}
	for j < len(sc.s) && sc.s[j] == ' ' {
		j++
	}
	start := j
	for j < len(sc.s) && (isIdentCont(rune(sc.s[j]))) {
		j++
	}
	return sc.s[start:j], stripLeft
}

func (sc *tmplScanner) consumeDirectiveMarker(stripLeft bool) {
	sc.i += 2
	if stripLeft {
		sc.i++
	}
	for sc.i < len(sc.s) && sc.s[sc.i] == ' ' {
		sc.i++
	}
	for sc.i < len(sc.s) && sc.s[sc.i] != '}' {
		sc.i++
	}
	if sc.i < len(sc.s) {
		sc.i++ // consume '}'
	}
}

func (sc *tmplScanner) scanInterp() (ast.TemplatePart, error) {
	sc.i += 2 // "${"
	stripLeft := false
	if sc.i < len(sc.s) && sc.s[sc.i] == '~' {
		stripLeft = true
		sc.i++
	}

	start := sc.i
	depth := 1
	for sc.i < len(sc.s) && depth > 0 {
		switch sc.s[sc.i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				continue
			}
		}
		sc.i++
	}
	if depth != 0 {
		return nil, fmt.Errorf("%s unterminated interpolation", FormatPos(sc.pos))
	}
	inner := sc.s[start:sc.i]
	sc.i++ // consume "}"

	stripRight := false
	if strings.HasSuffix(inner, "~") {
		stripRight = true
		inner = strings.TrimSuffix(inner, "~")
	}

	expr, err := parseExprText(sc.pos, inner, sc.opts)
	if err != nil {
		return nil, err
	}
	return ast.InterpPart{Expr: expr, StripLeft: stripLeft, StripRight: stripRight}, nil
}

func (sc *tmplScanner) scanDirective(keyword string) (ast.TemplatePart, error) {
	_, stripLeft := sc.peekDirectiveKeyword()
	headerExpr, headerStripRight, err := sc.scanDirectiveHeader(keyword)
	if err != nil {
		return nil, err
	}

	switch keyword {
	case "if":
		then, stop, err := sc.parseUntil("else", "endif")
		if err != nil {
			return nil, err
		}
		d := ast.DirectivePart{
			Kind:       "if",
			Cond:       headerExpr,
			Then:       then,
			StripLeft:  stripLeft,
			StripRight: headerStripRight,
		}
		if stop == "else" {
			d.HasElse = true
			els, _, err := sc.parseUntil("endif")
			if err != nil {
				return nil, err
			}
			d.Else = els
		}
		return d, nil

	case "for":
		keyIdent, valueIdent := splitForIdents(headerExpr)
		coll := sc.forCollection
		body, _, err := sc.parseUntil("endfor")
		if err != nil {
			return nil, err
		}
		return ast.DirectivePart{
			Kind:       "for",
			KeyIdent:   keyIdent,
			ValueIdent: valueIdent,
			Collection: coll,
			Body:       body,
			StripLeft:  stripLeft,
			StripRight: headerStripRight,
		}, nil

	default:
		return nil, fmt.Errorf("%s unknown template directive %q", FormatPos(sc.pos), keyword)
	}
}

func (sc *tmplScanner) scanDirectiveHeader(keyword string) (ast.Expression, bool, error) {
	sc.i += 2
	if sc.i < len(sc.s) && sc.s[sc.i] == '~' {
		sc.i++
	}
	for sc.i < len(sc.s) && sc.s[sc.i] == ' ' {
		sc.i++
	}
	// skip keyword text
	for sc.i < len(sc.s) && isIdentCont(rune(sc.s[sc.i])) {
		sc.i++
	}

	start := sc.i
	depth := 1
	for sc.i < len(sc.s) && depth > 0 {
		switch sc.s[sc.i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				continue
			}
		}
		sc.i++
	}
	if depth != 0 {
		return nil, false, fmt.Errorf("%s unterminated %%{%s} directive", FormatPos(sc.pos), keyword)
	}
	inner := sc.s[start:sc.i]
	sc.i++ // consume "}"

	stripRight := false
	if strings.HasSuffix(inner, "~") {
		stripRight = true
		inner = strings.TrimSuffix(inner, "~")
	}
	inner = strings.TrimSpace(inner)

	if keyword == "for" {
		idx := strings.Index(inner, " in ")
		if idx < 0 {
			return nil, false, fmt.Errorf("%s malformed %%{for} directive", FormatPos(sc.pos))
		}
		idents := inner[:idx]
		collSrc := inner[idx+len(" in "):]
		coll, err := parseExprText(sc.pos, collSrc, sc.opts)
		if err != nil {
			return nil, false, err
		}
		sc.forCollection = coll
		return &ast.Variable{Name: idents}, stripRight, nil
	}

	expr, err := parseExprText(sc.pos, inner, sc.opts)
	return expr, stripRight, err
}

func splitForIdents(identsExpr ast.Expression) (key, value string) {
	v, ok := identsExpr.(*ast.Variable)
	if !ok {
		return "", ""
	}
	parts := strings.Split(v.Name, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return "", ""
}

// parseExprText re-lexes and parses a standalone expression, used for
// every `${...}` and `%{...}` payload.
func parseExprText(pos lexer.Position, text string, opts options.Options) (ast.Expression, error) {
	raw, err := exprParser.ParseString(pos.Filename, text)
	if err != nil {
		return nil, fmt.Errorf("%s %w", FormatPos(pos), err)
	}
	lo := &lower{filename: pos.Filename, opts: opts}
	return lo.expr(raw)
}

// unescapeOne processes one backslash escape in a quoted-string template
// per spec.md §6: \" \\ \/ \b \f \n \r \t, and \uXXXX (with surrogate
// pair support for codepoints above U+FFFF).
func (sc *tmplScanner) unescapeOne() (string, error) {
	if sc.i+1 >= len(sc.s) {
		return "", fmt.Errorf("%s dangling escape at end of string", FormatPos(sc.pos))
	}
	c := sc.s[sc.i+1]
	switch c {
	case '"':
		sc.i += 2
		return "\"", nil
	case '\\':
		sc.i += 2
		return "\\", nil
	case '/':
		sc.i += 2
		return "/", nil
	case 'b':
		sc.i += 2
		return "\b", nil
	case 'f':
		sc.i += 2
		return "\f", nil
	case 'n':
		sc.i += 2
		return "\n", nil
	case 'r':
		sc.i += 2
		return "\r", nil
	case 't':
		sc.i += 2
		return "\t", nil
	case 'u':
		if sc.i+6 > len(sc.s) {
			return "", fmt.Errorf("%s truncated \\u escape", FormatPos(sc.pos))
		}
		hex := sc.s[sc.i+2 : sc.i+6]
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return "", fmt.Errorf("%s invalid \\u escape %q", FormatPos(sc.pos), hex)
		}
		sc.i += 6
		r := rune(n)
		if utf16.IsSurrogate(r) && sc.i+6 <= len(sc.s) && sc.s[sc.i] == '\\' && sc.s[sc.i+1] == 'u' {
			hex2 := sc.s[sc.i+2 : sc.i+6]
			n2, err := strconv.ParseUint(hex2, 16, 32)
			if err == nil {
				if combined := utf16.DecodeRune(r, rune(n2)); combined != utf8.RuneError {
					sc.i += 6
					return string(combined), nil
				}
			}
		}
		return string(r), nil
	default:
		sc.i += 2
		return "\\" + string(c), nil
	}
}

func unquote(raw string, opts options.Options) (string, error) {
	if len(raw) < 2 {
		return raw, nil
	}
	body := raw[1 : len(raw)-1]
	parts, _, err := scanTemplateParts(lexer.Position{}, body, true, opts)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range parts {
		if lit, ok := p.(ast.LiteralPart); ok {
			b.WriteString(lit.Text)
		}
	}
	return b.String(), nil
}

// FormatPos is re-exported here for lower.go's error messages to avoid
// importing the diagnostic package just for string formatting.
func FormatPos(pos lexer.Position) string {
	return parserFormatPos(pos)
}
