package sim

import (
	"math"
	"math/rand"

	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/vector"
)

const (
	// maxPlacementAttempts bounds the rejection sampling of one placement;
	// the last candidate is kept if every attempt overlaps.
	maxPlacementAttempts = 64

	// placementClearance is the gap kept between randomly placed bodies.
	placementClearance = 20.0
)

// Pose is a spawn position and heading in degrees.
type Pose struct {
	Position vector.Vector2
	Heading  float64
}

// placer scatters circles inside the arena without overlapping the ones
// already placed.
type placer struct {
	bounds collision.Bounds
	margin float64
	placed []collision.Shape
}

func newPlacer(bounds collision.Bounds, margin float64) *placer {
	return &placer{bounds: bounds, margin: margin}
}

// reserve records a body placed by other means.
func (p *placer) reserve(s collision.Shape) {
	if !s.IsDegenerate() {
		p.placed = append(p.placed, s)
	}
}

// place picks a position for a circle of the given radius.
func (p *placer) place(rng *rand.Rand, radius float64) vector.Vector2 {
	var pos vector.Vector2
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		pos = vector.MakeVector2(
			p.margin+rng.Float64()*(p.bounds.Width-2*p.margin),
			p.margin+rng.Float64()*(p.bounds.Height-2*p.margin),
		)
		if p.clear(pos, radius) {
			break
		}
	}
	p.reserve(collision.MakeShape(pos, radius))
	return pos
}

func (p *placer) clear(pos vector.Vector2, radius float64) bool {
	for _, s := range p.placed {
		if pos.Dist(s.Center) < s.Radius+radius+placementClearance {
			return false
		}
	}
	return true
}

// randomHeading returns a heading in [0, 360) rounded to whole degrees.
func randomHeading(rng *rand.Rand) float64 {
	return math.Floor(rng.Float64() * 360)
}
