package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromHeading_CardinalDirections(t *testing.T) {
	tests := []struct {
		heading float64
		want    Vector2
	}{
		{0, MakeVector2(1, 0)},
		{90, MakeVector2(0, 1)},
		{180, MakeVector2(-1, 0)},
		{270, MakeVector2(0, -1)},
	}
	for _, tc := range tests {
		got := FromHeading(tc.heading)
		assert.InDelta(t, tc.want.X, got.X, 1e-12, "heading %v x", tc.heading)
		assert.InDelta(t, tc.want.Y, got.Y, 1e-12, "heading %v y", tc.heading)
	}
}

func TestVector2_Arithmetic(t *testing.T) {
	a := MakeVector2(3, 4)
	b := MakeVector2(1, 2)

	assert.Equal(t, MakeVector2(4, 6), a.Add(b))
	assert.Equal(t, MakeVector2(2, 2), a.Sub(b))
	assert.Equal(t, MakeVector2(6, 8), a.Scale(2))
	assert.Equal(t, 5.0, a.Mag())
	assert.Equal(t, 5.0, Zero().Dist(a))
	assert.True(t, Zero().IsZero())
	assert.False(t, a.IsZero())
}

func TestNormalizeHeading_WrapsIntoRange(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeHeading(360))
	assert.Equal(t, 270.0, NormalizeHeading(-90))
	assert.Equal(t, 45.0, NormalizeHeading(765))
}
