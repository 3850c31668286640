package projectile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/vector"
)

var bounds = collision.Bounds{Width: 1280, Height: 960}

func testConfig(capacity int) Config {
	return Config{Speed: 400, Lifetime: 3, Radius: 10, Capacity: capacity}
}

func emptyFrame() *collision.Frame {
	return collision.NewFrame(bounds, 0, nil)
}

func TestPool_Spawn_UpToCapacitySucceeds(t *testing.T) {
	// GIVEN a pool with capacity 5
	pool := NewPool(testConfig(5))

	// WHEN 5 projectiles are spawned
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Spawn(vector.MakeVector2(float64(i), 0), 0), "spawn %d", i)
	}

	// THEN the 6th fails with ErrPoolExhausted and nothing else changes
	err := pool.Spawn(vector.Zero(), 0)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, 5, pool.Len())
	assert.Equal(t, 0, pool.Available())
	assert.Equal(t, 5, pool.Capacity())
}

func TestPool_Step_MovesAlongHeading(t *testing.T) {
	pool := NewPool(testConfig(1))
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 100), 90))

	res := pool.Step(0.1, emptyFrame())

	assert.Equal(t, 0, res.Recycled())
	got := pool.Active()[0]
	assert.InDelta(t, 100, got.Position.X, 1e-9)
	assert.InDelta(t, 140, got.Position.Y, 1e-9)
	assert.InDelta(t, 2.9, got.Lifetime, 1e-9)
}

func TestPool_Recycle_ResetsLifetimeExactly(t *testing.T) {
	// GIVEN a single projectile that expires in one step
	pool := NewPool(testConfig(1))
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 100), 0))

	res := pool.Step(3, emptyFrame())

	// THEN it is back in the inactive list with the default lifetime
	assert.Equal(t, 1, res.Expired)
	require.Equal(t, 1, pool.Available())
	assert.Equal(t, 3.0, pool.inactive[0].Lifetime)
	assert.False(t, pool.inactive[0].recycle)

	// WHEN it is reused and stepped without collisions
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 100), 0))
	for i := 0; i < 2; i++ {
		res = pool.Step(1, emptyFrame())
		assert.Equal(t, 0, res.Recycled(), "step %d must not recycle", i)
		assert.Equal(t, 1, pool.Len())
	}

	// THEN it is only recycled once its full lifetime elapses again
	res = pool.Step(1, emptyFrame())
	assert.Equal(t, 1, res.Expired)
	assert.Equal(t, 0, pool.Len())
}

func TestPool_Step_MultipleOverlaps_RecycledOnce(t *testing.T) {
	// GIVEN one projectile overlapped by two ships and one obstacle at once
	pool := NewPool(testConfig(3))
	at := vector.MakeVector2(500, 500)
	require.NoError(t, pool.Spawn(at, 0))
	frame := collision.NewFrame(bounds, 0, map[string]*collision.Layer{
		collision.LayerShip: collision.NewLayer([]collision.Shape{
			collision.MakeShape(vector.MakeVector2(505, 500), 20),
			collision.MakeShape(vector.MakeVector2(495, 500), 20),
		}),
		collision.LayerObstacle: collision.NewLayer([]collision.Shape{
			collision.MakeShape(vector.MakeVector2(500, 520), 45),
		}),
	})

	// WHEN the pool steps
	res := pool.Step(1.0/60, frame)

	// THEN the projectile is recycled exactly once
	assert.Equal(t, StepResult{Hit: 1}, res)
	assert.Equal(t, 0, pool.Len())
	assert.Equal(t, 3, pool.Available())
}

func TestPool_Step_DeferredRecycleKeepsOthers(t *testing.T) {
	// GIVEN three projectiles where only the middle one sits on an obstacle
	pool := NewPool(testConfig(3))
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 100), 0))
	require.NoError(t, pool.Spawn(vector.MakeVector2(600, 600), 0))
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 800), 0))
	frame := collision.NewFrame(bounds, 0, map[string]*collision.Layer{
		collision.LayerObstacle: collision.NewLayer([]collision.Shape{
			collision.MakeShape(vector.MakeVector2(600, 600), 45),
		}),
	})

	// WHEN stepping
	res := pool.Step(0.01, frame)

	// THEN the two others keep flying in their original order
	assert.Equal(t, 1, res.Hit)
	active := pool.Active()
	require.Len(t, active, 2)
	assert.InDelta(t, 100, active[0].Position.Y, 1e-9)
	assert.InDelta(t, 800, active[1].Position.Y, 1e-9)
}

func TestPool_Step_ProjectileLayerDoesNotStopProjectiles(t *testing.T) {
	pool := NewPool(testConfig(2))
	require.NoError(t, pool.Spawn(vector.MakeVector2(100, 100), 0))
	require.NoError(t, pool.Spawn(vector.MakeVector2(105, 100), 0))
	frame := collision.NewFrame(bounds, 0, map[string]*collision.Layer{
		collision.LayerProjectile: pool.CollisionLayer(),
	})

	res := pool.Step(0.01, frame)

	assert.Equal(t, 0, res.Recycled())
}

func TestPool_CollisionLayer_SnapshotsActive(t *testing.T) {
	pool := NewPool(testConfig(4))
	require.NoError(t, pool.Spawn(vector.MakeVector2(10, 10), 0))
	require.NoError(t, pool.Spawn(vector.MakeVector2(20, 20), 0))

	layer := pool.CollisionLayer()

	assert.Equal(t, 2, layer.Len())
	assert.True(t, layer.CheckCollision(collision.MakeShape(vector.MakeVector2(12, 10), 1)))

	// the snapshot does not follow later motion
	pool.Step(1, emptyFrame())
	assert.True(t, layer.CheckCollision(collision.MakeShape(vector.MakeVector2(12, 10), 1)))
}

func TestNewPool_InvalidConfig_Panics(t *testing.T) {
	assert.Panics(t, func() { NewPool(testConfig(0)) })
	assert.Panics(t, func() { NewPool(Config{Speed: 0, Lifetime: 1, Radius: 1, Capacity: 1}) })
}
