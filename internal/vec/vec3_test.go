package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -5, 6)

	assert.Equal(t, New(5, -3, 9), a.Add(b))
	assert.Equal(t, New(-3, 7, -3), a.Sub(b))
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.True(t, a.Equals(New(1, 2, 3)))
	assert.False(t, b.IsNonNegative(), "вектор с отрицательной Y не должен считаться неотрицательным")
	assert.Equal(t, 9+49+9, a.DistanceSquared(b))
}

func TestFloorAndRound(t *testing.T) {
	assert.Equal(t, New(2, -1, 0), Floor(mgl32.Vec3{2.9, -0.1, 0}))
	assert.Equal(t, New(3, 0, 1), Round(mgl32.Vec3{2.5, -0.4, 0.6}))
	assert.Equal(t, mgl32.Vec3{1.5, 2.5, 3.5}, New(1, 2, 3).Center())
}
