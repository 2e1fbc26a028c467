package xr

import (
	"context"
	"errors"
	"fmt"

	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/geometry"
	"github.com/wallcraft/wallscan/pkg/measure"
)

// PlaneConfidence is the fixed confidence attached to plane-detection
// results. The bounding box is axis-aligned in reference space, so the
// measurement is approximate for rotated walls.
const PlaneConfidence = 0.85

// Sentinel errors for the plane path.
var (
	// ErrUnsupported is returned when the capability check fails.
	ErrUnsupported = errors.New("xr: device does not support AR plane detection")

	// ErrDegeneratePlane is returned for polygons with no usable extent.
	ErrDegeneratePlane = errors.New("xr: plane polygon has no usable extent")
)

// Orientation classifies a detected plane.
type Orientation string

const (
	// OrientationVertical marks a candidate wall.
	OrientationVertical Orientation = "vertical"
	// OrientationHorizontal marks floors and ceilings, which are skipped.
	OrientationHorizontal Orientation = "horizontal"
)

// Plane is a detected flat surface from the spatial-tracking session.
type Plane struct {
	Orientation Orientation       `json:"orientation"`
	Polygon     []geometry.Point3 `json:"polygon"`
}

// Source yields detected planes from a platform session. Implementations
// wrap the optional platform APIs (hit-test sources, per-frame plane
// access) and must return errors for absent features, never panic.
type Source interface {
	// NextPlane blocks until a plane is detected, the session ends, or
	// the context is done.
	NextPlane(ctx context.Context) (*Plane, error)

	// Close ends the platform session.
	Close() error
}

// Scanner runs the plane-detection measurement flow.
type Scanner struct {
	checker Checker
}

// NewScanner creates a scanner gated by the given capability checker.
func NewScanner(checker Checker) *Scanner {
	return &Scanner{checker: checker}
}

// Measure waits for the first vertical plane from the source and
// measures it. The session ends as soon as a result is produced.
// Unsupported devices are rejected before the source is touched.
func (s *Scanner) Measure(ctx context.Context, source Source) (measure.WallMeasurement, error) {
	cap := s.checker.Check(ctx)
	if !cap.Supported {
		return measure.WallMeasurement{}, fmt.Errorf("%w: %s", ErrUnsupported, cap.Message)
	}

	defer source.Close()

	for {
		plane, err := source.NextPlane(ctx)
		if err != nil {
			return measure.WallMeasurement{}, fmt.Errorf("xr: plane detection: %w", err)
		}
		if plane == nil || plane.Orientation != OrientationVertical {
			continue
		}

		result, err := MeasurePlane(plane.Polygon)
		if err != nil {
			log.Warn("skipping degenerate plane", "error", err)
			continue
		}
		return result, nil
	}
}

// MeasurePlane computes a wall measurement from a vertical plane's
// polygon. Width and height come from the polygon's axis-aligned
// bounding box in reference space.
func MeasurePlane(polygon []geometry.Point3) (measure.WallMeasurement, error) {
	bounds := geometry.BoundsOf(polygon)
	if bounds.Empty() || bounds.Width() <= 0 || bounds.Height() <= 0 {
		return measure.WallMeasurement{}, ErrDegeneratePlane
	}

	result := measure.NewWallMeasurement(bounds.Width(), bounds.Height(), measure.MethodPlane)
	result.Confidence = PlaneConfidence
	result.PlanePoints = append([]geometry.Point3(nil), polygon...)
	return result, nil
}
