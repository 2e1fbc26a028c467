// Package geometry provides the coordinate math for wall measurement:
// point distances, pixel-to-meter conversion against a reference object,
// and area computation.
package geometry

import "math"

// Point is a 2-D pixel coordinate on a captured frame or canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 is a 3-D coordinate in meters, used by the plane-detection path.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between two 2-D points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance3 returns the Euclidean distance between two 3-D points.
func Distance3(a, b Point3) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PixelsToMeters converts a pixel distance to meters using a reference
// object of known physical size.
//
// The caller must guarantee referencePixels != 0. The measurement session
// validates its calibration before calling this; a zero reference is a
// calibration error, not a conversion case.
func PixelsToMeters(pixelDist, referencePixels, referenceMeters float64) float64 {
	return pixelDist / referencePixels * referenceMeters
}

// Area returns widthM * heightM rounded to 2 decimal places.
//
// Rounding happens here, once, at the point of producing a user-visible
// result. Intermediate values must not be rounded or the error compounds
// across the width/height/area chain.
func Area(widthM, heightM float64) float64 {
	return Round(widthM*heightM, 2)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
