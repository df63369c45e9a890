package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	obj := NewObject()
	obj.Set("z", String("first"))
	obj.Set("a", String("second"))
	obj.Set("z", String("updated"))

	require.Equal(t, []string{"z", "a"}, obj.Keys())
	v, ok := obj.Get("z")
	require.True(t, ok)
	s, _ := v.Str()
	require.Equal(t, "updated", s)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	objA := NewObject()
	objA.Set("a", NumberFromInt64(1))
	objA.Set("b", Bool(true))

	objB := NewObject()
	objB.Set("a", NumberFromInt64(1))
	objB.Set("b", Bool(true))

	objReordered := NewObject()
	objReordered.Set("b", Bool(true))
	objReordered.Set("a", NumberFromInt64(1))

	for _, tc := range []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"null equals null", Null(), Null(), true},
		{"bool equals itself", Bool(true), Bool(true), true},
		{"bool differs", Bool(true), Bool(false), false},
		{"int equals float form", NumberFromInt64(2), NumberFromFloat(2.0), true},
		{"string equals itself", String("x"), String("x"), true},
		{"array order matters", Array([]Value{NumberFromInt64(1), NumberFromInt64(2)}), Array([]Value{NumberFromInt64(2), NumberFromInt64(1)}), false},
		{"object same order equal", ObjectVal(objA), ObjectVal(objB), true},
		{"object different order not equal", ObjectVal(objA), ObjectVal(objReordered), false},
		{"kind mismatch", Null(), Bool(false), false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, Equal(tc.a, tc.b))
		})
	}
}

func TestArrayIsCopiedOnConstruction(t *testing.T) {
	t.Parallel()
	items := []Value{NumberFromInt64(1)}
	v := Array(items)
	items[0] = NumberFromInt64(99)

	arr, ok := v.Array()
	require.True(t, ok)
	n, _ := arr[0].Number()
	require.Equal(t, "1", n.Text('g', -1))
}
