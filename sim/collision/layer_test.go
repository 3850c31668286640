package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botarena/botarena/sim/vector"
)

func TestLayer_CheckCollision_FindsOverlappingShape(t *testing.T) {
	// GIVEN a layer with a few scattered circles
	layer := NewLayer([]Shape{
		MakeShape(vector.MakeVector2(100, 100), 10),
		MakeShape(vector.MakeVector2(500, 500), 45),
		MakeShape(vector.MakeVector2(900, 100), 20),
	})

	// THEN probes only hit where a circle is
	assert.True(t, layer.CheckCollision(MakeShape(vector.MakeVector2(540, 500), 5)))
	assert.True(t, layer.CheckCollision(MakeShape(vector.MakeVector2(115, 100), 5)), "touching")
	assert.False(t, layer.CheckCollision(MakeShape(vector.MakeVector2(300, 300), 5)))
	assert.Equal(t, 3, layer.Len())
}

func TestLayer_DegenerateEntries_AreKeptButNeverHit(t *testing.T) {
	// GIVEN a layer whose only entry is degenerate, like a destroyed ship
	layer := NewLayer([]Shape{Degenerate()})

	// THEN the entry is still counted but a probe at the origin does not hit it
	assert.Equal(t, 1, layer.Len())
	assert.False(t, layer.CheckCollision(MakeShape(vector.Zero(), 10)))
}

func TestLayer_SelfShape_DoesNotCollide(t *testing.T) {
	self := MakeShape(vector.MakeVector2(50, 50), 20)
	layer := NewLayer([]Shape{self})
	assert.False(t, layer.CheckCollision(self))
}

func TestLayer_ShapesIsACopy(t *testing.T) {
	layer := NewLayer([]Shape{MakeShape(vector.MakeVector2(1, 1), 1)})
	shapes := layer.Shapes()
	shapes[0].Radius = 99
	assert.Equal(t, 1.0, layer.Shapes()[0].Radius)
}

func TestLayer_NilAndEmpty(t *testing.T) {
	var nilLayer *Layer
	probe := MakeShape(vector.Zero(), 5)
	assert.False(t, nilLayer.CheckCollision(probe))
	assert.False(t, NewLayer(nil).CheckCollision(probe))
}
