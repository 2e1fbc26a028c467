package xr

import (
	"context"
	"errors"
	"testing"

	"github.com/wallcraft/wallscan/pkg/geometry"
	"github.com/wallcraft/wallscan/pkg/measure"
)

// fakeSource yields a scripted sequence of planes.
type fakeSource struct {
	planes []*Plane
	err    error
	closed bool
}

func (f *fakeSource) NextPlane(ctx context.Context) (*Plane, error) {
	if len(f.planes) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, context.Canceled
	}
	p := f.planes[0]
	f.planes = f.planes[1:]
	return p, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func wallPolygon() []geometry.Point3 {
	return []geometry.Point3{
		{X: 0, Y: 0, Z: -1.2},
		{X: 4, Y: 0, Z: -1.2},
		{X: 4, Y: 2.5, Z: -1.2},
		{X: 0, Y: 2.5, Z: -1.2},
	}
}

func supported() Checker {
	return StaticChecker{Capability: NewCapability(true, true)}
}

func TestMeasurePlane(t *testing.T) {
	result, err := MeasurePlane(wallPolygon())
	if err != nil {
		t.Fatalf("MeasurePlane failed: %v", err)
	}

	if result.WidthM != 4.0 {
		t.Errorf("Expected width 4.00, got %v", result.WidthM)
	}
	if result.HeightM != 2.5 {
		t.Errorf("Expected height 2.50, got %v", result.HeightM)
	}
	if result.AreaSqM != 10.0 {
		t.Errorf("Expected area 10.00, got %v", result.AreaSqM)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Expected fixed confidence 0.85, got %v", result.Confidence)
	}
	if result.Method != measure.MethodPlane {
		t.Errorf("Expected plane method, got %v", result.Method)
	}
	if len(result.PlanePoints) != 4 {
		t.Errorf("Expected raw polygon points carried in result, got %d", len(result.PlanePoints))
	}
}

func TestMeasurePlane_Degenerate(t *testing.T) {
	tests := [][]geometry.Point3{
		nil,
		{{X: 1, Y: 1, Z: 0}},
		{{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}}, // no height
	}

	for _, polygon := range tests {
		if _, err := MeasurePlane(polygon); err != ErrDegeneratePlane {
			t.Errorf("Expected ErrDegeneratePlane for %v, got %v", polygon, err)
		}
	}
}

func TestScanner_FirstVerticalPlaneWins(t *testing.T) {
	source := &fakeSource{planes: []*Plane{
		{Orientation: OrientationHorizontal, Polygon: wallPolygon()}, // floor, skipped
		{Orientation: OrientationVertical, Polygon: wallPolygon()},
		{Orientation: OrientationVertical, Polygon: nil}, // never reached
	}}

	result, err := NewScanner(supported()).Measure(context.Background(), source)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}

	if result.AreaSqM != 10.0 {
		t.Errorf("Expected area 10.00, got %v", result.AreaSqM)
	}
	if !source.closed {
		t.Error("Expected session closed after first result")
	}
	if len(source.planes) != 1 {
		t.Errorf("Expected session to stop after the first vertical plane, %d planes left", len(source.planes))
	}
}

func TestScanner_UnsupportedDeviceRejectedBeforeSession(t *testing.T) {
	checker := StaticChecker{Capability: NewCapability(false, false)}
	source := &fakeSource{planes: []*Plane{{Orientation: OrientationVertical, Polygon: wallPolygon()}}}

	_, err := NewScanner(checker).Measure(context.Background(), source)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Expected ErrUnsupported, got %v", err)
	}
	if source.closed || len(source.planes) != 1 {
		t.Error("Expected source untouched for unsupported device")
	}
}

func TestScanner_SourceErrorSurfaces(t *testing.T) {
	sessionErr := errors.New("hit-test source unavailable")
	source := &fakeSource{err: sessionErr}

	_, err := NewScanner(supported()).Measure(context.Background(), source)
	if !errors.Is(err, sessionErr) {
		t.Fatalf("Expected wrapped session error, got %v", err)
	}
	if !source.closed {
		t.Error("Expected session closed on error")
	}
}

func TestScanner_SkipsDegenerateVerticalPlane(t *testing.T) {
	source := &fakeSource{planes: []*Plane{
		{Orientation: OrientationVertical, Polygon: nil}, // degenerate, skipped
		{Orientation: OrientationVertical, Polygon: wallPolygon()},
	}}

	result, err := NewScanner(supported()).Measure(context.Background(), source)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if result.AreaSqM != 10.0 {
		t.Errorf("Expected area 10.00, got %v", result.AreaSqM)
	}
}

func TestNewCapability_Messages(t *testing.T) {
	tests := []struct {
		immersive, plane bool
		supported        bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}

	for _, tt := range tests {
		c := NewCapability(tt.immersive, tt.plane)
		if c.Supported != tt.supported {
			t.Errorf("NewCapability(%v, %v).Supported = %v, want %v",
				tt.immersive, tt.plane, c.Supported, tt.supported)
		}
		if c.Message == "" {
			t.Errorf("NewCapability(%v, %v) has no user-facing message", tt.immersive, tt.plane)
		}
	}
}
