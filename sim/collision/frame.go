package collision

import "github.com/botarena/botarena/sim/vector"

// Raycast categories that are not layer names.
const (
	CategoryWall = "wall"
	CategoryNone = "none"
)

// DefaultMaxRayLength is the distance after which a ray gives up.
const DefaultMaxRayLength = 1000.0

// Bounds is the arena rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the rectangle (edges included).
func (b Bounds) Contains(p vector.Vector2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// RaycastResult is what a ray hit and how far away.
// Category is a layer name, CategoryWall or CategoryNone.
type RaycastResult struct {
	Category string
	Distance float64
}

// Frame is one tick's layered snapshot. It is never mutated after
// construction and must not outlive the tick it was built for.
type Frame struct {
	bounds       Bounds
	maxRayLength float64
	layers       map[string]*Layer
}

// NewFrame builds a frame over layers. A non-positive maxRayLength selects
// DefaultMaxRayLength.
func NewFrame(bounds Bounds, maxRayLength float64, layers map[string]*Layer) *Frame {
	if maxRayLength <= 0 {
		maxRayLength = DefaultMaxRayLength
	}
	f := &Frame{
		bounds:       bounds,
		maxRayLength: maxRayLength,
		layers:       make(map[string]*Layer, len(layers)),
	}
	for name, layer := range layers {
		f.layers[name] = layer
	}
	return f
}

// Bounds returns the arena rectangle the frame was built with.
func (f *Frame) Bounds() Bounds {
	return f.bounds
}

// Layer returns the named layer, or nil.
func (f *Frame) Layer(name string) *Layer {
	return f.layers[name]
}

// CheckCollision reports whether s overlaps any shape in the named layers.
// Unknown layer names contribute nothing.
func (f *Frame) CheckCollision(layers []string, s Shape) bool {
	_, hit := f.FirstHit(layers, s)
	return hit
}

// FirstHit returns the name of a layer overlapping s. Layers are walked from
// the last name to the first, so a later name in the list wins when several
// layers overlap s.
func (f *Frame) FirstHit(layers []string, s Shape) (string, bool) {
	for i := len(layers) - 1; i >= 0; i-- {
		layer, ok := f.layers[layers[i]]
		if !ok {
			continue
		}
		if layer.CheckCollision(s) {
			return layers[i], true
		}
	}
	return "", false
}

// Raycast marches a probe circle of radius step from origin along heading
// (degrees) in increments of step. The first overlapped layer is returned
// with the marched distance plus the probe radius, i.e. the distance to the
// hit surface. Past the max ray length the result is CategoryNone; a probe
// that leaves the arena yields CategoryWall. Accuracy is bounded by step.
func (f *Frame) Raycast(layers []string, origin vector.Vector2, heading, step float64) RaycastResult {
	if step <= 0 {
		return RaycastResult{Category: CategoryNone}
	}
	dir := vector.FromHeading(heading).Scale(step)
	pos := origin
	dist := 0.0
	for {
		if name, hit := f.FirstHit(layers, MakeShape(pos, step)); hit {
			return RaycastResult{Category: name, Distance: dist + step}
		}
		// The length cutoff is checked before the bounds so the loop always terminates.
		if dist > f.maxRayLength {
			return RaycastResult{Category: CategoryNone, Distance: dist}
		}
		if !f.bounds.Contains(pos) {
			return RaycastResult{Category: CategoryWall, Distance: dist}
		}
		pos = pos.Add(dir)
		dist += step
	}
}
