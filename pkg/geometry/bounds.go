package geometry

import "math"

// Bounds is an axis-aligned bounding box around a set of 3-D points.
type Bounds struct {
	Min Point3
	Max Point3
}

// NewBounds returns an empty bounding box ready to be extended.
func NewBounds() Bounds {
	return Bounds{
		Min: Point3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Point3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// BoundsOf returns the bounding box of the given points.
func BoundsOf(points []Point3) Bounds {
	b := NewBounds()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Extend expands the bounding box to include a point.
func (b *Bounds) Extend(p Point3) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
}

// Width returns the X extent of the bounding box.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the Y extent of the bounding box.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Empty reports whether the bounding box has never been extended.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X
}
