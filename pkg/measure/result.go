// Package measure implements the wall measurement session: an explicit
// state machine driving the calibration-based camera flow, plus the
// manual-entry path. Pixel geometry lives in pkg/geometry; this package
// owns state transitions, calibration, and the camera stream lifecycle.
package measure

import (
	"fmt"

	"github.com/wallcraft/wallscan/pkg/geometry"
)

// Method identifies which path produced a measurement.
type Method string

const (
	// MethodManual is direct width/height entry.
	MethodManual Method = "manual"
	// MethodCamera is the tap-to-calibrate camera flow.
	MethodCamera Method = "camera"
	// MethodEstimate is the automatic heuristic estimate.
	MethodEstimate Method = "estimate"
	// MethodPlane is the AR plane-detection flow.
	MethodPlane Method = "plane"
)

// WallMeasurement is the result of a completed measurement session.
// Immutable once returned; the quote subsystem folds AreaSqM (or
// NetAreaSqM when set) into its running total.
type WallMeasurement struct {
	WidthM     float64 `json:"width_m"`
	HeightM    float64 `json:"height_m"`
	AreaSqM    float64 `json:"area_sq_m"`
	Dimensions string  `json:"dimensions"`
	Method     Method  `json:"method"`

	// Set by the heuristic path only.
	NetAreaSqM       float64 `json:"net_area_sq_m,omitempty"`
	ObstructionCount int     `json:"obstruction_count,omitempty"`

	// Set by the plane-detection path only.
	Confidence  float64           `json:"confidence,omitempty"`
	PlanePoints []geometry.Point3 `json:"plane_points,omitempty"`
}

// NewWallMeasurement builds a result from raw width/height in meters.
// The area and the display label are rounded here; width and height are
// kept unrounded so downstream math does not compound rounding error.
func NewWallMeasurement(widthM, heightM float64, method Method) WallMeasurement {
	return WallMeasurement{
		WidthM:     widthM,
		HeightM:    heightM,
		AreaSqM:    geometry.Area(widthM, heightM),
		Dimensions: DimensionsLabel(widthM, heightM),
		Method:     method,
	}
}

// DimensionsLabel formats width and height for display.
func DimensionsLabel(widthM, heightM float64) string {
	return fmt.Sprintf("%.2fm x %.2fm", widthM, heightM)
}
