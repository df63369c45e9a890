package parser

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/sync/errgroup"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/diagnostic"
	"github.com/eldrevo/hclcore/internal/filebuffer"
	"github.com/eldrevo/hclcore/options"
)

// ParseError wraps a grammar-engine or lowering failure with a
// diagnostic.SpanError so callers get Pretty() source-context rendering.
// decode and encode errors are plain errors without a span.
type ParseError struct {
	*diagnostic.SpanError
}

// ParseBody implements parse_body (spec.md §6): it reads and buffers r
// under filename, parses a Body, and on failure returns a *ParseError
// carrying the offending position. r is buffered into ctx's
// diagnostic.Sources only when ctx carries one (diagnostic.WithSources);
// otherwise the buffer goes into a throwaway Sources and a later Pretty
// call has no source line to show.
// opts.MaxDepth bounds expression nesting (spec.md §5); a value <= 0
// falls back to options.Default().MaxDepth.
func ParseBody(ctx context.Context, filename string, r io.Reader, opts options.Options) (*ast.Body, error) {
	fb := filebuffer.New(filename)
	tee := io.TeeReader(r, fb)
	registerSource(ctx, filename, fb)

	raw, err := Parser.Parse(filename, tee)
	if err != nil {
		return nil, wrapParseError(filename, err)
	}
	body, err := lowerBody(raw, opts)
	if err != nil {
		return nil, wrapLowerError(filename, err)
	}
	return body, nil
}

// ParseBodyString is a convenience wrapper over ParseBody for in-memory
// source text.
func ParseBodyString(ctx context.Context, filename, src string, opts options.Options) (*ast.Body, error) {
	return ParseBody(ctx, filename, strings.NewReader(src), opts)
}

// ParseTemplate implements parse_template (spec.md §6): it splits raw
// template text — the content of a quoted string or heredoc, without its
// delimiters — into literal/interpolation/directive parts, applying
// backslash-escape processing the same way a quoted string does.
func ParseTemplate(ctx context.Context, filename, src string, opts options.Options) (ast.Expression, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = options.Default().MaxDepth
	}
	pos := lexer.Position{Filename: filename, Line: 1, Column: 1}
	parts, _, err := scanTemplateParts(pos, src, true, opts)
	if err != nil {
		return nil, err
	}
	return collapseTemplate(pos, parts, false, false, ""), nil
}

// ParseFiles parses every source concurrently, one errgroup goroutine per
// source with no concurrency limit set, mirroring the teacher's
// ParseMultiple: independent documents have no reason to parse
// sequentially. The first error returned by any source is returned.
func ParseFiles(ctx context.Context, sources map[string]io.Reader, opts options.Options) (map[string]*ast.Body, error) {
	var (
		g       errgroup.Group
		results = make(map[string]*ast.Body, len(sources))
	)
	type pair struct {
		name string
		body *ast.Body
	}
	out := make(chan pair, len(sources))

	for name, r := range sources {
		name, r := name, r
		g.Go(func() error {
			body, err := ParseBody(ctx, name, r, opts)
			if err != nil {
				return err
			}
			out <- pair{name, body}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)
	for p := range out {
		results[p.name] = p.body
	}
	return results, nil
}

func registerSource(ctx context.Context, filename string, fb *filebuffer.FileBuffer) {
	diagnostic.Sources(ctx).Set(filename, fb)
}

// wrapParseError converts a participle error into a *ParseError carrying
// a diagnostic.Span at the failure position, so it renders through
// SpanError's Pretty().
func wrapParseError(filename string, err error) *ParseError {
	var pos lexer.Position
	msg := err.Error()

	if perr, ok := err.(participle.Error); ok {
		pos = perr.Position()
		msg = perr.Message()
	} else {
		pos = lexer.Position{Filename: filename, Line: 1, Column: 1}
	}

	se := &diagnostic.SpanError{
		Err: fmt.Errorf("%s", msg),
		Pos: pos,
		End: pos,
		Spans: []diagnostic.Span{
			{Message: msg, Type: diagnostic.Primary, Start: pos, End: pos},
		},
	}
	return &ParseError{SpanError: se}
}

// lowerErrorPos matches the "filename:line:col:" prefix FormatPos writes
// at the front of every error lowerBody can return.
var lowerErrorPos = regexp.MustCompile(`^(.*):(\d+):(\d+): (.*)$`)

// wrapLowerError converts a lowering failure (spec.md §5's max-depth
// guard, a malformed heredoc or template) into a *ParseError, the same
// error kind a grammar-engine failure produces, per spec.md §7's
// "source text is not a valid body/template" contract. lowerBody's
// errors are built through FormatPos, so the position is recovered from
// the message text rather than threading a lexer.Position through every
// lowering return path.
func wrapLowerError(filename string, err error) *ParseError {
	pos := lexer.Position{Filename: filename, Line: 1, Column: 1}
	msg := err.Error()

	if m := lowerErrorPos.FindStringSubmatch(msg); m != nil {
		line, lerr := strconv.Atoi(m[2])
		col, cerr := strconv.Atoi(m[3])
		if lerr == nil && cerr == nil {
			pos = lexer.Position{Filename: m[1], Line: line, Column: col}
			msg = m[4]
		}
	}

	se := &diagnostic.SpanError{
		Err: fmt.Errorf("%s", msg),
		Pos: pos,
		End: pos,
		Spans: []diagnostic.Span{
			{Message: msg, Type: diagnostic.Primary, Start: pos, End: pos},
		},
	}
	return &ParseError{SpanError: se}
}
