package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botarena/botarena/sim/vector"
)

var testBounds = Bounds{Width: 1280, Height: 960}

func obstacleFrame(center vector.Vector2, radius float64) *Frame {
	return NewFrame(testBounds, DefaultMaxRayLength, map[string]*Layer{
		LayerObstacle: NewLayer([]Shape{MakeShape(center, radius)}),
	})
}

func TestFrame_CheckCollision_AbsentLayerIsNoOp(t *testing.T) {
	// GIVEN a frame with only an obstacle layer
	frame := obstacleFrame(vector.MakeVector2(100, 100), 20)
	probe := MakeShape(vector.MakeVector2(100, 100), 5)

	// THEN querying an unknown layer contributes nothing
	assert.False(t, frame.CheckCollision([]string{"missing"}, probe))
	assert.True(t, frame.CheckCollision([]string{"missing", LayerObstacle}, probe))
	assert.False(t, frame.CheckCollision(nil, probe))
}

func TestFrame_Raycast_HitsObstacleSurface(t *testing.T) {
	// GIVEN an obstacle whose surface is 180 units ahead of the origin
	frame := obstacleFrame(vector.MakeVector2(300, 100), 20)

	// WHEN a ray is cast along +X with step 5
	res := frame.Raycast([]string{LayerShip, LayerObstacle}, vector.MakeVector2(100, 100), 0, 5)

	// THEN it reports the obstacle at the surface distance (probe radius included)
	assert.Equal(t, LayerObstacle, res.Category)
	assert.InDelta(t, 180, res.Distance, 1e-9)
}

func TestFrame_Raycast_TieBreak_LaterLayerWins(t *testing.T) {
	// GIVEN two layers holding the same circle
	circle := []Shape{MakeShape(vector.MakeVector2(200, 100), 20)}
	frame := NewFrame(testBounds, 0, map[string]*Layer{
		LayerShip:     NewLayer(circle),
		LayerObstacle: NewLayer(circle),
	})
	origin := vector.MakeVector2(100, 100)

	// THEN the later name in the query list wins
	assert.Equal(t, LayerObstacle, frame.Raycast([]string{LayerShip, LayerObstacle}, origin, 0, 5).Category)
	assert.Equal(t, LayerShip, frame.Raycast([]string{LayerObstacle, LayerShip}, origin, 0, 5).Category)
}

func TestFrame_Raycast_WallWhenLeavingBounds(t *testing.T) {
	// GIVEN an empty frame and an origin 100 units from the left edge
	frame := NewFrame(testBounds, 0, nil)

	// WHEN casting towards -X with step 5
	res := frame.Raycast([]string{LayerShip, LayerObstacle}, vector.MakeVector2(100, 100), 180, 5)

	// THEN the probe leaves the arena on the step past x=0
	assert.Equal(t, CategoryWall, res.Category)
	assert.InDelta(t, 105, res.Distance, 1e-9)
}

func TestFrame_Raycast_NoneAfterMaxLength(t *testing.T) {
	// GIVEN bounds far larger than the max ray length
	frame := NewFrame(Bounds{Width: 1e6, Height: 1e6}, 1000, nil)

	for _, step := range []float64{1, 3, 7, 50} {
		// WHEN casting into empty space
		res := frame.Raycast([]string{LayerObstacle}, vector.MakeVector2(10, 10), 45, step)

		// THEN the ray stops within one step past the max length
		assert.Equal(t, CategoryNone, res.Category, "step %v", step)
		assert.Greater(t, res.Distance, 1000.0, "step %v", step)
		assert.LessOrEqual(t, res.Distance, 1000.0+step, "step %v", step)
	}
}

func TestFrame_Raycast_NonPositiveStep(t *testing.T) {
	frame := NewFrame(testBounds, 0, nil)
	res := frame.Raycast([]string{LayerObstacle}, vector.MakeVector2(10, 10), 0, 0)
	assert.Equal(t, RaycastResult{Category: CategoryNone}, res)
}

func TestFrame_Raycast_LargerStepNeverLosesMoreThanOneStep(t *testing.T) {
	// GIVEN fixed geometry with the obstacle surface 180 units away
	frame := obstacleFrame(vector.MakeVector2(300, 100), 20)
	origin := vector.MakeVector2(100, 100)
	layers := []string{LayerObstacle}

	results := map[float64]float64{}
	for step := 1.0; step <= 30; step++ {
		res := frame.Raycast(layers, origin, 0, step)
		require.Equal(t, LayerObstacle, res.Category, "step %v", step)
		// The discrete hit never undershoots the surface and overshoots by less than a step.
		assert.GreaterOrEqual(t, res.Distance, 180.0-1e-9, "step %v", step)
		assert.Less(t, res.Distance, 180.0+step, "step %v", step)
		results[step] = res.Distance
	}

	// THEN increasing the step never decreases the distance by more than the larger step
	for small := 1.0; small <= 30; small++ {
		for large := small + 1; large <= 30; large++ {
			assert.GreaterOrEqual(t, results[large], results[small]-large,
				"step %v vs %v", small, large)
		}
	}
}

func TestFrame_Raycast_DegenerateShapesInvisible(t *testing.T) {
	// GIVEN a ship layer holding only a destroyed (degenerate) ship at the origin
	frame := NewFrame(testBounds, 0, map[string]*Layer{
		LayerShip: NewLayer([]Shape{Degenerate()}),
	})

	// WHEN casting from right next to the origin towards it
	res := frame.Raycast([]string{LayerShip}, vector.MakeVector2(3, 3), 225, 1)

	// THEN the ray reaches the wall instead of the degenerate entry
	assert.Equal(t, CategoryWall, res.Category)
}

func TestBounds_Contains(t *testing.T) {
	assert.True(t, testBounds.Contains(vector.MakeVector2(0, 0)))
	assert.True(t, testBounds.Contains(vector.MakeVector2(1280, 960)))
	assert.False(t, testBounds.Contains(vector.MakeVector2(-0.1, 10)))
	assert.False(t, testBounds.Contains(vector.MakeVector2(10, 960.5)))
}
