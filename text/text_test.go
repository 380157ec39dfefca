package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromToAndFromLenAgree(t *testing.T) {
	tests := []struct {
		start, end Unit
	}{
		{0, 0},
		{0, 6},
		{3, 4},
		{10, 10},
	}

	for _, tt := range tests {
		t.Run(FromTo(tt.start, tt.end).String(), func(t *testing.T) {
			assert.Equal(t, FromTo(tt.start, tt.end), FromLen(tt.start, tt.end-tt.start))
		})
	}
}

func TestFromToRejectsInvertedRange(t *testing.T) {
	assert.PanicsWithValue(t, "invalid text range [4; 3)", func() {
		FromTo(4, 3)
	})
}

func TestRangeAccessors(t *testing.T) {
	r := FromTo(2, 5)
	assert.Equal(t, Unit(2), r.Start())
	assert.Equal(t, Unit(5), r.End())
	assert.Equal(t, Unit(3), r.Len())
	assert.False(t, r.IsEmpty())
	assert.True(t, FromTo(3, 3).IsEmpty())
	assert.True(t, Empty().IsEmpty())
	assert.Equal(t, "[2; 5)", r.String())
}

func TestContainmentIsInclusive(t *testing.T) {
	r := FromTo(2, 5)

	assert.False(t, r.ContainsOffset(1))
	assert.True(t, r.ContainsOffset(2))
	assert.True(t, r.ContainsOffset(4))
	assert.True(t, r.ContainsOffset(5))
	assert.False(t, r.ContainsOffset(6))

	assert.True(t, r.ContainsRange(r))
	assert.True(t, r.ContainsRange(FromTo(5, 5)))
	assert.True(t, r.ContainsRange(FromTo(3, 4)))
	assert.False(t, r.ContainsRange(FromTo(1, 3)))
	assert.False(t, r.ContainsRange(FromTo(4, 6)))
}

func TestUnitArithmetic(t *testing.T) {
	assert.Equal(t, Unit(7), Unit(3).Add(4))
	assert.Equal(t, Unit(1), Unit(4).Sub(3))
	assert.Equal(t, Unit(0), Unit(0).Sub(0))
	assert.Panics(t, func() { Unit(1).Sub(2) })
	assert.Equal(t, "42", Unit(42).String())
}

func TestSlice(t *testing.T) {
	src := "46 * 2"
	require.Equal(t, "46", FromTo(0, 2).Slice(src))
	require.Equal(t, "*", FromTo(3, 4).Slice(src))
	require.Equal(t, "", FromTo(6, 6).Slice(src))
}
