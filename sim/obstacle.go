package sim

import (
	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/vector"
)

// Obstacle is a static rock. It loses one hit point for every tick a
// projectile overlaps it and disappears at zero.
type Obstacle struct {
	Position  vector.Vector2 `json:"position" yaml:"position"`
	Radius    float64        `json:"radius" yaml:"radius"`
	HitPoints int            `json:"hit_points" yaml:"hit_points"`
}

// Alive reports whether the obstacle still blocks anything.
func (o *Obstacle) Alive() bool {
	return o.HitPoints > 0
}

// Shape returns the obstacle's collision circle, degenerate once destroyed.
func (o *Obstacle) Shape() collision.Shape {
	if !o.Alive() {
		return collision.Degenerate()
	}
	return collision.MakeShape(o.Position, o.Radius)
}

// step applies this tick's projectile overlap and reports whether the
// obstacle was hit.
func (o *Obstacle) step(frame *collision.Frame) bool {
	if !o.Alive() || !frame.CheckCollision([]string{collision.LayerProjectile}, o.Shape()) {
		return false
	}
	o.HitPoints--
	return true
}
