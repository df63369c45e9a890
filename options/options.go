// Package options holds the single explicit configuration record taken by
// the parse entry points and DecodeDynamic (spec.md §5/§9: "no global state... any
// configuration passes via an explicit options record"). It is split out
// as its own leaf package so both the parser and the AST/value layer can
// depend on it without a cycle through the root package.
package options

// Options configures parsing and value conversion. parser.ParseBody and
// parser.ParseTemplate replace a MaxDepth <= 0, the zero value's included,
// with Default's bound.
type Options struct {
	// MaxDepth bounds expression nesting depth during AST construction.
	// Parsing a pathologically nested input fails with a ParseError
	// instead of exhausting the stack (spec.md §5).
	MaxDepth int

	// PreserveNumberPrecision keeps a parsed number literal's full
	// arbitrary-precision decimal form (via math/big) instead of
	// narrowing it to float64 (spec.md §3 "Number").
	PreserveNumberPrecision bool
}

// Default returns the Options this module uses when a caller doesn't
// supply its own: a generous but finite recursion bound, and float64
// number semantics.
func Default() Options {
	return Options{MaxDepth: 512}
}
