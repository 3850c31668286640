package collision

import (
	"github.com/dhconnelly/rtreego"
	"github.com/sirupsen/logrus"
)

const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
	// bboxSlack widens query boxes so circles that exactly touch are still
	// returned by the tree, which treats touching rectangles as disjoint.
	bboxSlack = 1e-6
)

// indexedShape adapts a Shape to rtreego.Spatial.
type indexedShape struct {
	shape Shape
	rect  rtreego.Rect
}

func (s *indexedShape) Bounds() rtreego.Rect {
	return s.rect
}

// Layer is an immutable set of shapes of one category, rebuilt every tick.
// Non-degenerate shapes are also indexed in an R-tree so queries only run
// the exact circle test against nearby candidates.
type Layer struct {
	shapes []Shape
	tree   *rtreego.Rtree
}

// NewLayer builds a layer from shapes. The slice is copied.
func NewLayer(shapes []Shape) *Layer {
	l := &Layer{shapes: make([]Shape, len(shapes))}
	copy(l.shapes, shapes)

	spatials := make([]rtreego.Spatial, 0, len(shapes))
	for _, s := range l.shapes {
		if s.IsDegenerate() {
			continue
		}
		rect, err := boundingRect(s, 0)
		if err != nil {
			logrus.Warnf("collision: skipping unindexable shape %v: %v", s, err)
			continue
		}
		spatials = append(spatials, &indexedShape{shape: s, rect: rect})
	}
	l.tree = rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, spatials...)
	return l
}

// Len returns the number of shapes in the layer, degenerate ones included.
func (l *Layer) Len() int {
	return len(l.shapes)
}

// Shapes returns a copy of the layer's shapes.
func (l *Layer) Shapes() []Shape {
	out := make([]Shape, len(l.shapes))
	copy(out, l.shapes)
	return out
}

// CheckCollision reports whether s overlaps any shape of the layer.
func (l *Layer) CheckCollision(s Shape) bool {
	if l == nil || s.IsDegenerate() || l.tree.Size() == 0 {
		return false
	}
	query, err := boundingRect(s, bboxSlack)
	if err != nil {
		return false
	}
	for _, candidate := range l.tree.SearchIntersect(query) {
		if Collide(candidate.(*indexedShape).shape, s) {
			return true
		}
	}
	return false
}

func boundingRect(s Shape, slack float64) (rtreego.Rect, error) {
	r := s.Radius + slack
	return rtreego.NewRect(
		rtreego.Point{s.Center.X - r, s.Center.Y - r},
		[]float64{2 * r, 2 * r},
	)
}
