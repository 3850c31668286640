// Package projectile implements the arena-wide projectile pool: a fixed set
// of projectile slots recycled between an inactive and an active list so
// that firing never allocates.
package projectile

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/vector"
)

// ErrPoolExhausted is returned by Spawn when every projectile is in flight.
var ErrPoolExhausted = errors.New("projectile pool exhausted")

// Layers a projectile is stopped by.
var stopLayers = []string{collision.LayerShip, collision.LayerObstacle}

// Config holds the projectile constants.
type Config struct {
	Speed    float64 // arena units per second
	Lifetime float64 // seconds in flight before expiring
	Radius   float64
	Capacity int // total projectiles, active + inactive
}

// Projectile is one pooled projectile.
type Projectile struct {
	Position vector.Vector2
	Heading  float64
	Lifetime float64
	recycle  bool
}

// Shape returns the projectile's collision circle.
func (p *Projectile) Shape(radius float64) collision.Shape {
	return collision.MakeShape(p.Position, radius)
}

// StepResult counts the projectiles recycled by one Step, by cause.
// A projectile that both expires and hits something counts as a hit.
type StepResult struct {
	Expired int
	Hit     int
}

// Recycled returns the total number of projectiles returned to the pool.
func (r StepResult) Recycled() int {
	return r.Expired + r.Hit
}

// Pool is owned by the simulation goroutine; agents share a pointer to it
// and only call Spawn from inside their own step.
type Pool struct {
	cfg      Config
	inactive []*Projectile
	active   []*Projectile
}

// NewPool allocates every projectile up front.
// Panics if the capacity, speed, lifetime or radius is not positive.
func NewPool(cfg Config) *Pool {
	if cfg.Capacity < 1 {
		panic("projectile.NewPool: Capacity must be >= 1")
	}
	if cfg.Speed <= 0 || cfg.Lifetime <= 0 || cfg.Radius <= 0 {
		panic("projectile.NewPool: Speed, Lifetime and Radius must be > 0")
	}
	p := &Pool{
		cfg:      cfg,
		inactive: make([]*Projectile, 0, cfg.Capacity),
		active:   make([]*Projectile, 0, cfg.Capacity),
	}
	for i := 0; i < cfg.Capacity; i++ {
		p.inactive = append(p.inactive, &Projectile{Lifetime: cfg.Lifetime})
	}
	return p
}

// Spawn moves one inactive projectile into flight at pos, heading.
func (p *Pool) Spawn(pos vector.Vector2, heading float64) error {
	n := len(p.inactive)
	if n == 0 {
		return ErrPoolExhausted
	}
	proj := p.inactive[n-1]
	p.inactive = p.inactive[:n-1]
	proj.Position = pos
	proj.Heading = heading
	proj.Lifetime = p.cfg.Lifetime
	proj.recycle = false
	p.active = append(p.active, proj)
	return nil
}

// Step advances every projectile in flight by dt seconds against frame.
// A projectile is marked when its current shape overlaps a ship or an
// obstacle, or when its lifetime runs out. Marked projectiles are recycled
// after the whole pass so iteration never sees a shrinking slice.
func (p *Pool) Step(dt float64, frame *collision.Frame) StepResult {
	var res StepResult
	var marked []int

	for i, proj := range p.active {
		hit := frame != nil && frame.CheckCollision(stopLayers, proj.Shape(p.cfg.Radius))
		if hit {
			proj.recycle = true
		}
		proj.Position = proj.Position.Add(vector.FromHeading(proj.Heading).Scale(p.cfg.Speed * dt))
		proj.Lifetime -= dt
		if proj.Lifetime <= 0 {
			proj.recycle = true
		}
		if !proj.recycle {
			continue
		}
		if hit {
			res.Hit++
		} else {
			res.Expired++
		}
		marked = append(marked, i)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(marked)))
	for _, i := range marked {
		p.recycle(i)
	}
	return res
}

// recycle resets the projectile at active index i and returns it to the inactive list.
func (p *Pool) recycle(i int) {
	proj := p.active[i]
	proj.recycle = false
	proj.Lifetime = p.cfg.Lifetime
	p.active = append(p.active[:i], p.active[i+1:]...)
	p.inactive = append(p.inactive, proj)
}

// CollisionLayer snapshots every projectile in flight for this tick's frame.
func (p *Pool) CollisionLayer() *collision.Layer {
	shapes := make([]collision.Shape, 0, len(p.active))
	for _, proj := range p.active {
		shapes = append(shapes, proj.Shape(p.cfg.Radius))
	}
	return collision.NewLayer(shapes)
}

// Active returns copies of the projectiles in flight.
func (p *Pool) Active() []Projectile {
	out := make([]Projectile, 0, len(p.active))
	for _, proj := range p.active {
		out = append(out, *proj)
	}
	return out
}

// Len returns the number of projectiles in flight.
func (p *Pool) Len() int { return len(p.active) }

// Available returns the number of projectiles ready to spawn.
func (p *Pool) Available() int { return len(p.inactive) }

// Capacity returns the fixed pool size.
func (p *Pool) Capacity() int { return p.cfg.Capacity }

// Radius returns the collision radius of every projectile.
func (p *Pool) Radius() float64 { return p.cfg.Radius }
