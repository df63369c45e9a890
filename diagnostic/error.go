package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	perrors "github.com/pkg/errors"
)

// Error aggregates zero or more per-location Diagnostics under a single
// wrapped cause, the same shape the teacher used to report every syntax
// error found in a module rather than stopping at the first one.
type Error struct {
	Err         error
	Diagnostics []error
}

func (e *Error) Error() string {
	var errs []string
	for _, err := range e.Diagnostics {
		errs = append(errs, err.Error())
	}
	return strings.Join(errs, "\n")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Spans collects every *SpanError reachable from err, whether wrapped
// directly or nested inside an *Error's Diagnostics.
func Spans(err error) (spans []*SpanError) {
	var e *Error
	if errors.As(err, &e) {
		for _, err := range e.Diagnostics {
			var span *SpanError
			if errors.As(err, &span) {
				spans = append(spans, span)
			}
		}
	}
	var span *SpanError
	if errors.As(err, &span) {
		spans = append(spans, span)
	}
	return
}

// DisplayError writes a human + optionally colorized rendering of spans to
// w, showing only the innermost frame unless printBacktrace is set —
// mirrors how a chained ParseError/DecodeError keeps the deepest source
// location while still making the full wrap chain inspectable on demand.
func DisplayError(ctx context.Context, w io.Writer, spans []*SpanError, err error, printBacktrace bool) {
	if len(spans) == 0 {
		return
	}

	color := Color(ctx)
	if err != nil {
		fmt.Fprintf(w, color.Sprintf(
			"%s: %s\n",
			color.Bold(color.Red("error")),
			color.Bold(Cause(err)),
		))
	}

	for i, span := range spans {
		if !printBacktrace && i != len(spans)-1 {
			if i == 0 {
				frame := "frame"
				if len(spans) > 2 {
					frame = "frames"
				}
				fmt.Fprintf(w, color.Sprintf(color.Cyan(" ⫶ %d %s hidden ⫶\n"), len(spans)-1, frame))
			}
			continue
		}

		pretty := span.Pretty(ctx, WithNumContext(2))
		lines := strings.Split(pretty, "\n")
		for j, line := range lines {
			if j == 0 {
				lines[j] = fmt.Sprintf(" %d: %s", i+1, line)
			} else {
				lines[j] = fmt.Sprintf("    %s", line)
			}
		}
		fmt.Fprintf(w, "%s\n", strings.Join(lines, "\n"))
	}
}

// Cause returns the deepest wrapped error message, stripped of any
// transport-layer noise a caller's own error wrapping might have added.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	return perrors.Cause(err).Error()
}
