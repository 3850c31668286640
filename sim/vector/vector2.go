// Package vector holds the 2D math shared by the arena packages.
// Headings are in degrees: 0 points along +X, 90 along +Y (screen down).
package vector

import (
	"fmt"
	"math"
)

// Vector2 is a point or displacement in arena units.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// MakeVector2 returns the vector (x, y).
func MakeVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Zero returns the null vector.
func Zero() Vector2 {
	return Vector2{}
}

// FromHeading returns the unit vector pointing along heading (degrees).
func FromHeading(heading float64) Vector2 {
	rad := heading * math.Pi / 180
	return Vector2{X: math.Cos(rad), Y: math.Sin(rad)}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{X: a.X + b.X, Y: a.Y + b.Y}
}

func (a Vector2) Sub(b Vector2) Vector2 {
	return Vector2{X: a.X - b.X, Y: a.Y - b.Y}
}

func (a Vector2) Scale(f float64) Vector2 {
	return Vector2{X: a.X * f, Y: a.Y * f}
}

// Mag returns the length of the vector.
func (a Vector2) Mag() float64 {
	return math.Hypot(a.X, a.Y)
}

// Dist returns the distance between two points.
func (a Vector2) Dist(b Vector2) float64 {
	return a.Sub(b).Mag()
}

// IsZero reports whether both components are exactly zero.
func (a Vector2) IsZero() bool {
	return a.X == 0 && a.Y == 0
}

func (a Vector2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", a.X, a.Y)
}

// NormalizeHeading maps any angle in degrees into [0, 360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
