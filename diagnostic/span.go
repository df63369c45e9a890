package diagnostic

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/logrusorgru/aurora"

	"github.com/eldrevo/hclcore/internal/filebuffer"
)

type Type int

const (
	Primary Type = iota
	Secondary
)

type Span struct {
	Message string
	Type    Type
	Start   lexer.Position
	End     lexer.Position
}

type Option func(*SpanError)

func Spanf(t Type, start, end lexer.Position, format string, a ...interface{}) Option {
	return func(se *SpanError) {
		se.Spans = append(se.Spans, Span{
			Message: fmt.Sprintf(format, a...),
			Type:    t,
			Start:   start,
			End:     end,
		})
	}
}

func WithError(err error, pos, end lexer.Position, opts ...Option) error {
	se := &SpanError{
		Err: err,
		Pos: pos,
		End: end,
	}
	for _, opt := range opts {
		opt(se)
	}
	return se
}

// SpanError is a position-bearing error. parser.ParseError embeds one, so
// parse failures render through Pretty; decode.Error and encode.Error are
// plain errors that carry no span.
type SpanError struct {
	Err      error
	Pos, End lexer.Position
	Spans    []Span
}

func (se *SpanError) Error() string {
	return fmt.Sprintf("%s %s", FormatPos(se.Pos), se.Err)
}

func (se *SpanError) Unwrap() error {
	return se.Err
}

type PrettyOption func(*PrettyInfo)

type PrettyInfo struct {
	NumContext int
}

func WithNumContext(num int) PrettyOption {
	return func(info *PrettyInfo) {
		info.NumContext = num
	}
}

// Pretty renders the error with source context: each span's source line,
// taken from the Sources in ctx, with a gutter and an underline.
func (se *SpanError) Pretty(ctx context.Context, opts ...PrettyOption) string {
	var (
		info    PrettyInfo
		reports []string
		sources = Sources(ctx)
		color   = Color(ctx)
	)
	for _, opt := range opts {
		opt(&info)
	}

	if len(se.Spans) == 0 {
		return se.Error()
	}

	maxLn := se.maxLn(sources, info.NumContext)
	gutter := strings.Repeat(" ", maxLn)

	filenames, spansByFilename := se.groupAnnotations()
	for _, filename := range filenames {
		fb := sources.Get(filename)
		if fb == nil {
			continue
		}

		spans := spansByFilename[filename]
		if len(spans) == 0 {
			continue
		}
		sort.SliceStable(spans, func(i, j int) bool {
			return spans[i].Start.Line < spans[j].Start.Line
		})

		pos := spans[0].Start
		if filename == se.Pos.Filename {
			pos = se.Pos
		}
		header := color.Sprintf(color.Underline("%s:%d:%d:"), pos.Filename, pos.Line, pos.Column)

		var (
			sections []string
			prevLn   int
		)
		prevLn = spans[0].Start.Line - info.NumContext - 1
		if prevLn < 0 {
			prevLn = 0
		}

		for i, span := range spans {
			var (
				underline string
				msgColor  func(interface{}) aurora.Value
			)
			switch span.Type {
			case Primary:
				underline = "^"
				msgColor = color.Red
			case Secondary:
				underline = "-"
				msgColor = color.Green
			}

			data, err := fb.Line(span.Start.Line - 1)
			if err != nil {
				reports = append(reports, err.Error())
				continue
			}

			end := span.Start.Column - 1
			if end > len(data) {
				end = len(data)
			}
			padding := bytes.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return r
				}
				return ' '
			}, data[:end])

			before := span.Start.Line - info.NumContext
			if before < 1 {
				before = 1
			}
			if before < prevLn+1 {
				before = prevLn + 1
			}

			var lines []string
			if before-prevLn > 1 {
				lines = append(lines, color.Sprintf(color.Blue("%s ⫶"), gutter))
			}

			for j := before; j < span.Start.Line; j++ {
				leading, err := fb.Line(j - 1)
				if err != nil {
					continue
				}
				lines = append(lines, string(leading))
			}

			lines = append(lines, string(data))
			width := span.End.Column - span.Start.Column
			if width < 1 {
				width = 1
			}
			lines = append(lines, color.Sprintf(msgColor("%s%s"), padding, strings.Repeat(underline, width)))

			if len(span.Message) > 0 {
				for _, line := range strings.Split(span.Message, "\n") {
					lines = append(lines, color.Sprintf("%s%s", padding, msgColor(line)))
				}
			}

			sections = append(sections, strings.Join(lines, "\n"))
			prevLn = span.Start.Line
			_ = i
		}

		body := strings.Join(sections, color.Sprintf(color.Blue("\n")))
		reports = append(reports, fmt.Sprintf("%s\n%s", header, body))
	}

	title := color.Sprintf("%s: %s\n", color.Bold(color.Red("error")), color.Bold(se.Err))
	return fmt.Sprintf("%s%s", title, strings.Join(reports, "\n"))
}

func (se *SpanError) maxLn(sources *filebuffer.Sources, numContext int) int {
	maxLn := 0
	for _, span := range se.Spans {
		fb := sources.Get(span.Start.Filename)
		line := span.Start.Line + numContext
		if fb != nil && line > fb.Len() {
			line = fb.Len()
		}
		ln := fmt.Sprintf("%d", line)
		if len(ln) > maxLn {
			maxLn = len(ln)
		}
	}
	return maxLn
}

func (se *SpanError) groupAnnotations() (filenames []string, spansByFilename map[string][]Span) {
	spansByFilename = make(map[string][]Span)
	for _, span := range se.Spans {
		spansByFilename[span.Start.Filename] = append(spansByFilename[span.Start.Filename], span)
	}
	for filename := range spansByFilename {
		if filename == se.Pos.Filename {
			continue
		}
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)
	return append([]string{se.Pos.Filename}, filenames...), spansByFilename
}

// FormatPos returns a lexer.Position formatted as "file:line:col:".
func FormatPos(pos lexer.Position) string {
	return fmt.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column)
}
