package hclcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/diagnostic"
	"github.com/eldrevo/hclcore/internal/filebuffer"
	"github.com/eldrevo/hclcore/value"
)

func TestParseValueStringFlattensBlocksAndAttributes(t *testing.T) {
	t.Parallel()
	v, err := ParseValueString(context.Background(), "test.hcl", `
		name = "widget"
		tag "color" {
			value = "red"
		}
	`, DefaultOptions())
	require.NoError(t, err)

	obj, ok := v.Object()
	require.True(t, ok)
	name, ok := obj.Get("name")
	require.True(t, ok)
	s, _ := name.Str()
	require.Equal(t, "widget", s)
}

func TestEmitRoundTripsParsedBody(t *testing.T) {
	t.Parallel()
	src := "name = \"widget\"\ncount = 3"
	body, err := ParseBodyString(context.Background(), "test.hcl", src, DefaultOptions())
	require.NoError(t, err)

	text, err := Emit(body)
	require.NoError(t, err)
	require.Equal(t, src, text)

	reparsed, err := ParseBodyString(context.Background(), "test.hcl", text, DefaultOptions())
	require.NoError(t, err)

	v1, err := ParseValueString(context.Background(), "test.hcl", src, DefaultOptions())
	require.NoError(t, err)
	v2, err := DecodeDynamic(reparsed, DefaultOptions())
	require.NoError(t, err)
	require.True(t, value.Equal(v1, v2))
}

func TestDumpProducesNonEmptyTree(t *testing.T) {
	t.Parallel()
	body, err := ParseBodyString(context.Background(), "test.hcl", `x = 1`, DefaultOptions())
	require.NoError(t, err)
	out := Dump(body)
	require.Contains(t, out, "attribute x")
}

func TestParseErrorPrettyRendersSourceSnippet(t *testing.T) {
	t.Parallel()
	ctx := diagnostic.WithSources(context.Background(), filebuffer.NewSources())
	_, err := ParseBodyString(ctx, "bad.hcl", "x = \n", DefaultOptions())
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	pretty := perr.Pretty(ctx)
	require.Contains(t, pretty, "x = ")
}

func TestEncodeValueThenEmit(t *testing.T) {
	t.Parallel()
	obj := value.NewObject()
	obj.Set("ok", value.Bool(true))
	v := value.ObjectVal(obj)

	text, err := Emit(v)
	require.NoError(t, err)
	require.Equal(t, "{\n  ok = true\n}", text)
}
