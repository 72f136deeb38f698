package pytype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisplayRoundTrip(t *testing.T) {
	for _, name := range []string{"int", "float", "str", "bool", "list", "dict", "tuple"} {
		typ, ok := Parse(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
}

func TestParseRejectsOtherNames(t *testing.T) {
	for _, name := range []string{"", "Int", "string", "List", "None", "UnknownType", "set", " int"} {
		_, ok := Parse(name)
		assert.False(t, ok, "%q should not parse", name)
	}
}

func TestIsAssignableGrid(t *testing.T) {
	trueCount := 0
	for _, actual := range All() {
		for _, expected := range All() {
			want := actual == expected || (actual == Boolean && expected == Integer)
			got := IsAssignable(actual, expected)
			assert.Equal(t, want, got, "%s -> %s", actual, expected)
			if got {
				trueCount++
			}
		}
	}
	assert.Equal(t, 8, trueCount)
}

func TestNoNumericWidening(t *testing.T) {
	assert.False(t, IsAssignable(Integer, Float))
	assert.False(t, IsAssignable(Integer, Boolean))
	assert.True(t, IsAssignable(Boolean, Integer))
}

func TestAllIsDistinct(t *testing.T) {
	seen := map[Type]bool{}
	for _, typ := range All() {
		assert.False(t, seen[typ])
		seen[typ] = true
	}
	assert.Len(t, seen, 7)
}
