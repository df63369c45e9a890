package encode

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/ast"
)

type stringSrc string

func (s stringSrc) StringValue() (string, bool) { return string(s), true }

type numberSrc int64

func (n numberSrc) NumberValue() (*big.Float, bool) {
	return new(big.Float).SetInt64(int64(n)), true
}

type recordSrc struct {
	name  string
	count int64
}

func (r recordSrc) MapValues() ([]KV, bool) {
	return []KV{
		{Key: "name", Value: stringSrc(r.name)},
		{Key: "count", Value: numberSrc(r.count)},
	}, true
}

func TestValueEncodesMapSource(t *testing.T) {
	t.Parallel()
	v, err := Value(recordSrc{name: "widget", count: 3})
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)
	name, ok := obj.Get("name")
	require.True(t, ok)
	s, _ := name.Str()
	require.Equal(t, "widget", s)
	count, ok := obj.Get("count")
	require.True(t, ok)
	n, _ := count.Number()
	require.Equal(t, "3", n.Text('f', 0))
}

func TestValueRejectsUnsupportedSource(t *testing.T) {
	t.Parallel()
	_, err := Value(struct{}{})
	require.Error(t, err)
	var ee *Error
	require.ErrorAs(t, err, &ee)
	require.Equal(t, InvalidValue, ee.Kind)
}

type blockSrc struct{}

func (blockSrc) EncodeAttributes() ([]AttributeSource, error) {
	return []AttributeSource{{Name: "x", Value: stringSrc("y")}}, nil
}

func (blockSrc) EncodeBlocks() ([]BlockSource, error) {
	return nil, nil
}

type rootSrc struct{}

func (rootSrc) EncodeAttributes() ([]AttributeSource, error) {
	return nil, nil
}

func (rootSrc) EncodeBlocks() ([]BlockSource, error) {
	return []BlockSource{{Type: "child", Labels: []string{"a"}, Body: blockSrc{}}}, nil
}

func TestBodyEncodesAttributesAndBlocks(t *testing.T) {
	t.Parallel()
	body, err := Body(rootSrc{})
	require.NoError(t, err)
	require.Len(t, body.Structures, 1)
	blk, ok := body.Structures[0].(*ast.Block)
	require.True(t, ok)
	require.Equal(t, "child", blk.Type)
	require.Equal(t, []ast.Label{{Value: "a", Quoted: true}}, blk.Labels)
	require.Len(t, blk.Body.Structures, 1)
	attr := blk.Body.Structures[0].(*ast.Attribute)
	require.Equal(t, "x", attr.Name)
}
