// Package estimate implements the automatic wall-area estimate. Wall
// width is approximated from the frame's aspect ratio scaled against a
// standard ceiling height; detected obstructions and a standard fixture
// deduction are subtracted to get net paintable area. The output is an
// estimate, not a measurement.
package estimate

import (
	"math"

	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/detect"
	"github.com/wallcraft/wallscan/pkg/geometry"
	"github.com/wallcraft/wallscan/pkg/measure"
)

// Frame is one captured video frame.
type Frame struct {
	// Width and Height are the frame's pixel dimensions.
	Width  int
	Height int

	// JPEG is the encoded frame, used for obstruction detection.
	// May be nil; detection is skipped without it.
	JPEG []byte
}

// Estimator produces wall-area estimates from single frames.
type Estimator struct {
	cfg      Config
	detector *detect.Service
}

// NewEstimator creates an estimator. The detector service may be nil;
// the estimator then works from aspect ratio alone.
func NewEstimator(cfg Config, detector *detect.Service) *Estimator {
	return &Estimator{cfg: cfg, detector: detector}
}

// Estimate computes the estimated wall measurement for one frame.
//
// Detection failures degrade to an aspect-ratio-only estimate rather
// than failing the flow; only an unusable frame is an error.
func (e *Estimator) Estimate(frame Frame) (measure.WallMeasurement, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return measure.WallMeasurement{}, ErrInvalidFrame
	}

	aspect := float64(frame.Width) / float64(frame.Height)

	// Estimated wall width, rounded to one decimal for display parity
	// with the manual flow. The multiplier is empirical.
	widthM := geometry.Round(e.cfg.CeilingHeightM*aspect*e.cfg.WidthMultiplier, 1)
	heightM := e.cfg.CeilingHeightM
	grossSqM := geometry.Area(widthM, heightM)

	obstructions := e.detectObstructions(frame, widthM)

	obstructionSqM := 0.0
	pixelsPerMeter := float64(frame.Width) / widthM
	for _, obj := range obstructions {
		obstructionSqM += obj.Box.Area() / (pixelsPerMeter * pixelsPerMeter)
	}

	netSqM := grossSqM - obstructionSqM - e.cfg.StandardDeductionSqM
	netSqM = math.Max(0, geometry.Round(netSqM, 2))

	result := measure.NewWallMeasurement(widthM, heightM, measure.MethodEstimate)
	result.NetAreaSqM = netSqM
	result.ObstructionCount = len(obstructions)

	log.Debug("wall estimate",
		"aspect", aspect,
		"width_m", widthM,
		"gross_sq_m", grossSqM,
		"obstructions", len(obstructions),
		"net_sq_m", netSqM)

	return result, nil
}

// detectObstructions runs the detector on the frame and filters to the
// obstruction allow-list. Any failure returns no obstructions.
func (e *Estimator) detectObstructions(frame Frame, widthM float64) []detect.Object {
	if e.detector == nil || !e.detector.Loaded() || len(frame.JPEG) == 0 {
		return nil
	}

	objects, err := e.detector.Detect(frame.JPEG)
	if err != nil {
		log.Warn("obstruction detection failed, using aspect-ratio estimate only", "error", err)
		return nil
	}

	return detect.FilterObstructions(objects, e.cfg.ScoreThreshold)
}
