// Package diagnostic renders source-position-aware errors for hclcore:
// spans over a buffered source file, optional ANSI coloring, and a
// levenshtein-based suggestion helper for unknown-field diagnostics.
package diagnostic

import (
	"context"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"

	"github.com/eldrevo/hclcore/internal/filebuffer"
)

type (
	sourcesKey struct{}
	colorKey   struct{}
)

func WithSources(ctx context.Context, sources *filebuffer.Sources) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

func Sources(ctx context.Context) *filebuffer.Sources {
	sources, ok := ctx.Value(sourcesKey{}).(*filebuffer.Sources)
	if !ok {
		return filebuffer.NewSources()
	}
	return sources
}

// EnsureSources returns ctx unchanged if it already carries a Sources
// value (so a caller's own WithSources wins), or a copy carrying a fresh
// one otherwise, since Sources(ctx) on its own silently falls back to a
// throwaway Sources that is discarded as soon as the call returns. Source
// text registered in that fresh Sources is reachable only through the
// returned ctx, not through the ctx the caller passed in.
func EnsureSources(ctx context.Context) context.Context {
	if _, ok := ctx.Value(sourcesKey{}).(*filebuffer.Sources); ok {
		return ctx
	}
	return WithSources(ctx, filebuffer.NewSources())
}

func WithColor(ctx context.Context, color aurora.Aurora) context.Context {
	return context.WithValue(ctx, colorKey{}, color)
}

func Color(ctx context.Context) aurora.Aurora {
	color, ok := ctx.Value(colorKey{}).(aurora.Aurora)
	if !ok {
		return aurora.NewAurora(false)
	}
	return color
}

// AutoColor returns an Aurora instance that colorizes output only when w is
// a terminal, the same heuristic command-line HCL tooling uses before
// printing a ParseError.
func AutoColor(w io.Writer) aurora.Aurora {
	type fder interface{ Fd() uintptr }
	enabled := false
	if f, ok := w.(fder); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return aurora.NewAurora(enabled)
}
