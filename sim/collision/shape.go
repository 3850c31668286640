// Package collision builds the per-tick layered snapshot of circular shapes
// and answers overlap and raycast queries against it.
package collision

import "github.com/botarena/botarena/sim/vector"

// Layer names used by the arena.
const (
	LayerShip       = "ship"
	LayerProjectile = "projectile"
	LayerObstacle   = "obstacle"
)

// Shape is a circle. A zero radius marks a degenerate shape that never collides.
type Shape struct {
	Center vector.Vector2
	Radius float64
}

// MakeShape returns the circle centered on c with radius r.
func MakeShape(c vector.Vector2, r float64) Shape {
	return Shape{Center: c, Radius: r}
}

// Degenerate returns the shape reported by entities that no longer take part in collisions.
func Degenerate() Shape {
	return Shape{}
}

// IsDegenerate reports whether the shape can never collide.
func (s Shape) IsDegenerate() bool {
	return s.Radius <= 0
}

// Collide reports whether a and b overlap. Degenerate shapes and identical
// shapes (an entity tested against its own entry) never collide.
func Collide(a, b Shape) bool {
	if a.IsDegenerate() || b.IsDegenerate() || a == b {
		return false
	}
	return a.Center.Dist(b.Center) <= a.Radius+b.Radius
}
