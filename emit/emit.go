// Package emit renders a Body, Expression, or Value back to HCL source
// text (spec.md §4.G, component G). Formatting is canonical, not a
// byte-exact round trip of the original whitespace/comments — spec.md §1
// puts that out of scope.
//
// The shape is the teacher's `unparse.go`: a small set of per-node
// rendering functions driven by a switch on the node's concrete type,
// with a shared block-braces helper standing in for `StringifyBlock`.
// Unlike the teacher, every block here is multi-line (canonical
// formatting per spec.md §4.G always puts the closing brace on its own
// line), so there's no same-line-vs-multi-line branch to make.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/value"
)

const indentUnit = "  "

// Body renders b as a sequence of attributes and blocks at the top
// level (no surrounding braces).
func Body(b *ast.Body) string {
	return body(b, 0)
}

// Expression renders a single expression in isolation, e.g. for
// debugging or for re-emitting an attribute's value on its own.
func Expression(e ast.Expression) string {
	return exprAt(e, 0)
}

// Value renders v as the literal HCL text that parses back to an equal
// Value (spec.md §8's round-trip property), going through
// ast.ValueToExpr so value and expression emission share one code path.
func Value(v value.Value) (string, error) {
	e, err := ast.ValueToExpr(v)
	if err != nil {
		return "", err
	}
	return exprAt(e, 0), nil
}

func body(b *ast.Body, depth int) string {
	if b == nil || len(b.Structures) == 0 {
		return ""
	}
	ind := strings.Repeat(indentUnit, depth)
	var lines []string
	for _, s := range b.Structures {
		switch s := s.(type) {
		case *ast.Attribute:
			lines = append(lines, fmt.Sprintf("%s%s = %s", ind, s.Name, exprAt(s.Value, depth)))
		case *ast.Block:
			lines = append(lines, blockText(s, depth))
		}
	}
	return strings.Join(lines, "\n")
}

func blockText(b *ast.Block, depth int) string {
	ind := strings.Repeat(indentUnit, depth)
	var head strings.Builder
	head.WriteString(ind)
	head.WriteString(b.Type)
	for _, l := range b.Labels {
		head.WriteByte(' ')
		head.WriteString(labelText(l))
	}
	inner := body(b.Body, depth+1)
	if inner == "" {
		head.WriteString(" {}")
		return head.String()
	}
	head.WriteString(" {\n")
	head.WriteString(inner)
	head.WriteString("\n")
	head.WriteString(ind)
	head.WriteString("}")
	return head.String()
}

// labelText emits a label unquoted when it matches the identifier
// grammar and was not forced quoted by the caller, otherwise quoted
// (spec.md §4.G). A label parsed as a quoted string literal is always
// re-quoted, even if it happens to look like an identifier (test
// scenario 2: `lbl1` stays quoted, `lbl2` stays bare).
func labelText(l ast.Label) string {
	if !l.Quoted && isIdentifier(l.Value) {
		return l.Value
	}
	return quoteString(l.Value)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// expr renders e with no surrounding indentation context (depth 0). Most
// expression kinds are depth-independent; exprAt exists because object
// literals are not.
func expr(e ast.Expression) string {
	return exprAt(e, 0)
}

func exprAt(e ast.Expression, depth int) string {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return literal(e)
	case *ast.TemplateExpr:
		return template(e)
	case *ast.ArrayExpr:
		return array(e, depth)
	case *ast.ObjectExpr:
		return object(e, depth)
	case *ast.Variable:
		return e.Name
	case *ast.FunctionCall:
		return functionCall(e, depth)
	case *ast.UnaryExpr:
		return e.Op + exprAt(e.Rhs, depth)
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", exprAt(e.Lhs, depth), e.Op, exprAt(e.Rhs, depth))
	case *ast.ConditionalExpr:
		return fmt.Sprintf("%s ? %s : %s", exprAt(e.Cond, depth), exprAt(e.Then, depth), exprAt(e.Else, depth))
	case *ast.ParenExpr:
		return "(" + exprAt(e.Inner, depth) + ")"
	case *ast.TraversalExpr:
		return traversal(e, depth)
	case *ast.ForTupleExpr:
		return forTuple(e, depth)
	case *ast.ForObjectExpr:
		return forObject(e, depth)
	default:
		return fmt.Sprintf("<unknown expression %T>", e)
	}
}

func literal(e *ast.LiteralExpr) string {
	switch e.Kind {
	case "null":
		return "null"
	case "bool":
		if e.Bool {
			return "true"
		}
		return "false"
	case "number":
		return numberText(e.NumberText)
	case "string":
		return quoteString(e.Str)
	default:
		return "<invalid literal>"
	}
}

// numberText re-renders a parsed literal's source text in canonical
// shortest-decimal form: integers as-is, floats reparsed through
// strconv's shortest round-trip formatter (spec.md §3 "Number").
func numberText(text string) string {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return escapeBraces(b.String())
}

// escapeBraces re-escapes literal "${" and "%{" sequences that would
// otherwise be read back as an interpolation/directive opener, the
// inverse of the `$${`/`%%{` rule in spec.md §4.B/§6.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "${", "$${")
	s = strings.ReplaceAll(s, "%{", "%%{")
	return s
}

func array(e *ast.ArrayExpr, depth int) string {
	if len(e.Items) == 0 {
		return "[]"
	}
	items := make([]string, len(e.Items))
	for i, item := range e.Items {
		items[i] = exprAt(item, depth)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// object renders a non-empty object literal one `key = value` line per
// item, matching spec.md §4.G's canonical multi-line rule for objects
// (the same shape Body uses for attributes/blocks).
func object(e *ast.ObjectExpr, depth int) string {
	if len(e.Items) == 0 {
		return "{}"
	}
	ind := strings.Repeat(indentUnit, depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, item := range e.Items {
		key := item.KeyName
		if item.KeyExpr != nil {
			key = exprAt(item.KeyExpr, depth+1)
		}
		fmt.Fprintf(&b, "%s%s = %s\n", ind, key, exprAt(item.Value, depth+1))
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
	return b.String()
}

func functionCall(e *ast.FunctionCall, depth int) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = exprAt(a, depth)
	}
	joined := strings.Join(args, ", ")
	if e.ExpandFinal {
		joined += "..."
	}
	return fmt.Sprintf("%s(%s)", e.Name, joined)
}

func traversal(e *ast.TraversalExpr, depth int) string {
	var b strings.Builder
	b.WriteString(exprAt(e.Base, depth))
	for _, s := range e.Suffixes {
		switch s := s.(type) {
		case ast.GetAttr:
			b.WriteByte('.')
			b.WriteString(s.Name)
		case ast.LegacyIndex:
			fmt.Fprintf(&b, ".%d", s.Index)
		case ast.Index:
			b.WriteByte('[')
			b.WriteString(exprAt(s.Key, depth))
			b.WriteByte(']')
		case ast.AttrSplat:
			b.WriteString(".*")
		case ast.FullSplat:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

func forTuple(e *ast.ForTupleExpr, depth int) string {
	var b strings.Builder
	b.WriteString("[for ")
	if e.KeyIdent != "" {
		b.WriteString(e.KeyIdent)
		b.WriteString(", ")
	}
	b.WriteString(e.ValueIdent)
	b.WriteString(" in ")
	b.WriteString(exprAt(e.Collection, depth))
	b.WriteString(" : ")
	b.WriteString(exprAt(e.Value, depth))
	if e.Cond != nil {
		b.WriteString(" if ")
		b.WriteString(exprAt(e.Cond, depth))
	}
	b.WriteByte(']')
	return b.String()
}

func forObject(e *ast.ForObjectExpr, depth int) string {
	var b strings.Builder
	b.WriteString("{for ")
	if e.KeyIdent != "" {
		b.WriteString(e.KeyIdent)
		b.WriteString(", ")
	}
	b.WriteString(e.ValueIdent)
	b.WriteString(" in ")
	b.WriteString(exprAt(e.Collection, depth))
	b.WriteString(" : ")
	b.WriteString(exprAt(e.Key, depth))
	b.WriteString(" => ")
	b.WriteString(exprAt(e.Value, depth))
	if e.Grouping {
		b.WriteString("...")
	}
	if e.Cond != nil {
		b.WriteString(" if ")
		b.WriteString(exprAt(e.Cond, depth))
	}
	b.WriteByte('}')
	return b.String()
}

// template re-serializes a TemplateExpr from its parts, preserving
// strip markers and heredoc delimiters exactly as parsed (spec.md §4.G
// "Template expressions are re-serialized from AST").
func template(e *ast.TemplateExpr) string {
	if e.Heredoc {
		return heredocTemplate(e)
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, p := range e.Parts {
		writeTemplatePart(&b, p, true)
	}
	b.WriteByte('"')
	return b.String()
}

func heredocTemplate(e *ast.TemplateExpr) string {
	marker := "<<"
	if e.Indented {
		marker = "<<-"
	}
	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(e.Terminator)
	b.WriteByte('\n')
	for _, p := range e.Parts {
		writeTemplatePart(&b, p, false)
	}
	if b.Len() == 0 || b.String()[b.Len()-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(e.Terminator)
	return b.String()
}

func writeTemplatePart(b *strings.Builder, p ast.TemplatePart, quoted bool) {
	switch p := p.(type) {
	case ast.LiteralPart:
		if quoted {
			b.WriteString(escapeLiteralBody(p.Text))
		} else {
			b.WriteString(escapeBraces(p.Text))
		}
	case ast.InterpPart:
		b.WriteString("${")
		if p.StripLeft {
			b.WriteByte('~')
		}
		b.WriteString(expr(p.Expr))
		if p.StripRight {
			b.WriteByte('~')
		}
		b.WriteString("}")
	case ast.DirectivePart:
		writeDirective(b, p)
	}
}

func escapeLiteralBody(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return escapeBraces(b.String())
}

func writeDirective(b *strings.Builder, d ast.DirectivePart) {
	switch d.Kind {
	case "if":
		b.WriteString("%{")
		if d.StripLeft {
			b.WriteByte('~')
		}
		b.WriteString("if ")
		b.WriteString(expr(d.Cond))
		if d.StripRight {
			b.WriteByte('~')
		}
		b.WriteString("}")
		for _, p := range d.Then {
			writeTemplatePart(b, p, false)
		}
		if d.HasElse {
			b.WriteString("%{else}")
			for _, p := range d.Else {
				writeTemplatePart(b, p, false)
			}
		}
		b.WriteString("%{endif}")
	case "for":
		b.WriteString("%{")
		if d.StripLeft {
			b.WriteByte('~')
		}
		b.WriteString("for ")
		if d.KeyIdent != "" {
			b.WriteString(d.KeyIdent)
			b.WriteString(", ")
		}
		b.WriteString(d.ValueIdent)
		b.WriteString(" in ")
		b.WriteString(expr(d.Collection))
		if d.StripRight {
			b.WriteByte('~')
		}
		b.WriteString("}")
		for _, p := range d.Body {
			writeTemplatePart(b, p, false)
		}
		b.WriteString("%{endfor}")
	}
}
