package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/vector"
)

func projectileFrame(at vector.Vector2) *collision.Frame {
	return collision.NewFrame(collision.Bounds{Width: 1280, Height: 960}, 0, map[string]*collision.Layer{
		collision.LayerProjectile: collision.NewLayer([]collision.Shape{collision.MakeShape(at, 10)}),
	})
}

func TestObstacle_LosesHitPointPerOverlappingTick(t *testing.T) {
	// GIVEN an obstacle with 2 hit points and a projectile overlapping it
	o := &Obstacle{Position: vector.MakeVector2(400, 400), Radius: 45, HitPoints: 2}
	frame := projectileFrame(vector.MakeVector2(440, 400))

	// WHEN two ticks see the overlap
	assert.True(t, o.step(frame))
	assert.True(t, o.Alive())
	assert.True(t, o.step(frame))

	// THEN it is gone, degenerate, and never goes negative
	assert.False(t, o.Alive())
	assert.True(t, o.Shape().IsDegenerate())
	assert.False(t, o.step(frame))
	assert.Equal(t, 0, o.HitPoints)
}

func TestObstacle_NoOverlapNoDamage(t *testing.T) {
	o := &Obstacle{Position: vector.MakeVector2(400, 400), Radius: 45, HitPoints: 2}

	assert.False(t, o.step(projectileFrame(vector.MakeVector2(500, 400))))
	assert.Equal(t, 2, o.HitPoints)
}

func TestPlacer_KeepsClearOfReservedShapes(t *testing.T) {
	// GIVEN a placer with one reserved body in the middle
	p := newPlacer(collision.Bounds{Width: 400, Height: 400}, 50)
	center := collision.MakeShape(vector.MakeVector2(200, 200), 40)
	p.reserve(center)
	rng := rand.New(rand.NewSource(1))

	// WHEN several circles are placed
	for i := 0; i < 5; i++ {
		pos := p.place(rng, 10)

		// THEN each lands inside the margin and away from the reserved body
		assert.True(t, pos.X >= 50 && pos.X <= 350 && pos.Y >= 50 && pos.Y <= 350, "placed at %v", pos)
		assert.GreaterOrEqual(t, pos.Dist(center.Center), 40+10+placementClearance)
	}
}

func TestPlacer_DegenerateReservationsIgnored(t *testing.T) {
	p := newPlacer(collision.Bounds{Width: 400, Height: 400}, 50)
	p.reserve(collision.Degenerate())
	assert.Empty(t, p.placed)
}

func TestRandomHeading_InRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		h := randomHeading(rng)
		assert.True(t, h >= 0 && h < 360, "heading %v", h)
	}
}
