package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/geometry"
)

// State is the session's current phase. Exactly one state is active at
// a time; all transitions go through Dispatch.
type State string

const (
	StateIdle           State = "idle"
	StateCameraStarting State = "camera-starting"
	StateCalibrating    State = "calibrating"
	StateMeasuring      State = "measuring"
	StateSuccess        State = "success"
	StateError          State = "error"
	StateManualEntry    State = "manual-entry"
)

// CameraActive reports whether the state holds a live camera stream.
func (s State) CameraActive() bool {
	return s == StateCameraStarting || s == StateCalibrating || s == StateMeasuring
}

// EventType identifies a session event.
type EventType string

const (
	// EventStartCamera begins the camera flow (idle only).
	EventStartCamera EventType = "start-camera"
	// EventCameraReady delivers the acquired stream (camera-starting only).
	EventCameraReady EventType = "camera-ready"
	// EventCameraDenied reports a permission failure while acquiring.
	EventCameraDenied EventType = "camera-denied"
	// EventPointCaptured records a user tap (calibrating or measuring).
	EventPointCaptured EventType = "point-captured"
	// EventStartManual enters manual entry (from idle, or error as fallback).
	EventStartManual EventType = "start-manual"
	// EventManualSubmit submits manual width/height (manual-entry only).
	EventManualSubmit EventType = "manual-submit"
	// EventRetry restarts the camera flow after an error.
	EventRetry EventType = "retry"
	// EventCancel aborts the session back to idle from any state.
	EventCancel EventType = "cancel"
)

// Event is dispatched into the session state machine. Only the fields
// relevant to the event type are read.
type Event struct {
	Type    EventType
	Point   geometry.Point // point-captured
	Stream  Stream         // camera-ready
	Width   string         // manual-submit
	Height  string         // manual-submit
	Message string         // camera-denied
}

// Stream is the camera stream held by an active session. Stop must
// release the underlying device; leaking a stream is a correctness bug.
type Stream interface {
	Stop()
	Stopped() bool
}

// Calibration maps pixel distances to meters via the reference object.
// Owned by one session and recomputed whenever calibration restarts.
// PixelDistance is guaranteed > 0 before it is ever used as a divisor.
type Calibration struct {
	PixelDistance   float64
	RealWorldMeters float64
}

// Session is the calibration/measurement state machine. It is safe for
// use from UI event handlers on a single goroutine; the internal mutex
// exists because the display-delay timer fires on another goroutine.
type Session struct {
	ID string

	// OnComplete is invoked once per successful session, after the
	// display delay for camera measurements.
	OnComplete func(WallMeasurement)

	// OnError is invoked with a human-readable message on unrecoverable
	// failure (camera denied, calibration error).
	OnError func(message string)

	// OnTransition is invoked after every state change.
	OnTransition func(from, to State)

	cfg Config

	mu          sync.Mutex
	state       State
	closed      bool
	stream      Stream
	calibPoints []geometry.Point
	points      []geometry.Point
	calibration *Calibration
	result      *WallMeasurement
	lastError   string
	timer       *time.Timer
}

// NewSession creates an idle session.
func NewSession(cfg Config) *Session {
	if cfg.ReferenceMeters <= 0 {
		cfg.ReferenceMeters = CreditCardWidthMeters
	}
	return &Session{
		ID:    uuid.NewString(),
		cfg:   cfg,
		state: StateIdle,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the computed measurement, or nil before success.
func (s *Session) Result() *WallMeasurement {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Calibration returns the active calibration, or nil.
func (s *Session) Calibration() *Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calibration == nil {
		return nil
	}
	c := *s.calibration
	return &c
}

// Points returns the captured measurement points so far, for rendering.
// The session emits data; drawing is the caller's concern.
func (s *Session) Points() []geometry.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]geometry.Point, len(s.points))
	copy(out, s.points)
	return out
}

// LastError returns the most recent failure message.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Dispatch feeds one event into the state machine. Illegal events return
// ErrInvalidTransition and leave the state untouched. Callbacks are
// invoked after internal state has settled.
func (s *Session) Dispatch(ev Event) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	var after []func()
	var err error

	switch ev.Type {
	case EventStartCamera:
		if s.state != StateIdle {
			err = ErrInvalidTransition
			break
		}
		after = s.transition(StateCameraStarting)

	case EventCameraReady:
		if s.state != StateCameraStarting {
			err = ErrInvalidTransition
			break
		}
		s.stream = ev.Stream
		s.resetPoints()
		after = s.transition(StateCalibrating)

	case EventCameraDenied:
		if !s.state.CameraActive() {
			err = ErrInvalidTransition
			break
		}
		after = s.fail(firstNonEmpty(ev.Message, "camera access denied"))

	case EventPointCaptured:
		after, err = s.capturePoint(ev.Point)

	case EventStartManual:
		if s.state != StateIdle && s.state != StateError {
			err = ErrInvalidTransition
			break
		}
		after = s.transition(StateManualEntry)

	case EventManualSubmit:
		after, err = s.submitManual(ev.Width, ev.Height)

	case EventRetry:
		if s.state != StateError {
			err = ErrInvalidTransition
			break
		}
		s.resetPoints()
		s.calibration = nil
		after = s.transition(StateCameraStarting)

	case EventCancel:
		s.releaseStream()
		s.stopTimer()
		s.resetPoints()
		s.calibration = nil
		s.result = nil
		after = s.transition(StateIdle)

	default:
		err = fmt.Errorf("measure: unknown event %q", ev.Type)
	}

	s.mu.Unlock()

	for _, fn := range after {
		fn()
	}
	return err
}

// Close tears the session down, releasing the camera stream regardless
// of state. Safe to call mid-session (view destroyed, navigation away).
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
	s.releaseStream()
}

// capturePoint handles a tap during calibrating or measuring.
func (s *Session) capturePoint(p geometry.Point) ([]func(), error) {
	switch s.state {
	case StateCalibrating:
		s.calibPoints = append(s.calibPoints, p)
		if len(s.calibPoints) < 2 {
			return nil, nil
		}

		pixelDist := geometry.Distance(s.calibPoints[0], s.calibPoints[1])
		if pixelDist == 0 {
			// Degenerate reference taps. Never divide by this; reset and
			// surface a calibration error for the attempt.
			s.calibPoints = s.calibPoints[:0]
			after := s.fail("calibration failed: reference points are identical, try again")
			return after, ErrCalibrationFailed
		}

		s.calibration = &Calibration{
			PixelDistance:   pixelDist,
			RealWorldMeters: s.cfg.ReferenceMeters,
		}
		log.Debug("calibration locked", "session", s.ID, "pixel_distance", pixelDist)
		return s.transition(StateMeasuring), nil

	case StateMeasuring:
		if len(s.points) >= 4 {
			// Measurement already has its four points; extra taps are
			// ignored rather than corrupting the result.
			return nil, nil
		}
		s.points = append(s.points, p)
		if len(s.points) < 4 {
			return nil, nil
		}
		return s.complete(), nil

	default:
		return nil, ErrInvalidTransition
	}
}

// complete computes the measurement from the four captured points and
// moves the session to success. Called with the mutex held.
func (s *Session) complete() []func() {
	widthPx := geometry.Distance(s.points[0], s.points[1])
	heightPx := geometry.Distance(s.points[2], s.points[3])

	widthM := geometry.PixelsToMeters(widthPx, s.calibration.PixelDistance, s.calibration.RealWorldMeters)
	heightM := geometry.PixelsToMeters(heightPx, s.calibration.PixelDistance, s.calibration.RealWorldMeters)

	result := NewWallMeasurement(widthM, heightM, MethodCamera)
	s.result = &result

	s.releaseStream()
	after := s.transition(StateSuccess)

	log.Info("measurement complete",
		"session", s.ID,
		"width_m", result.WidthM,
		"height_m", result.HeightM,
		"area_sq_m", result.AreaSqM)

	if s.OnComplete == nil {
		return after
	}

	if s.cfg.DisplayDelay <= 0 {
		cb := s.OnComplete
		return append(after, func() { cb(result) })
	}

	// Hold the result on screen before signaling downstream.
	s.timer = time.AfterFunc(s.cfg.DisplayDelay, func() {
		s.mu.Lock()
		closed := s.closed
		cb := s.OnComplete
		s.mu.Unlock()
		if !closed && cb != nil {
			cb(result)
		}
	})
	return after
}

// submitManual validates and applies manual width/height entry.
// Validation failures keep the session in manual-entry.
func (s *Session) submitManual(width, height string) ([]func(), error) {
	if s.state != StateManualEntry {
		return nil, ErrInvalidTransition
	}

	w, errW := strconv.ParseFloat(strings.TrimSpace(width), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if errW != nil || errH != nil || math.IsNaN(w) || math.IsNaN(h) || w <= 0 || h <= 0 {
		s.lastError = "enter a positive width and height in meters"
		return nil, ErrInvalidDimension
	}

	result := NewWallMeasurement(w, h, MethodManual)
	s.result = &result
	after := s.transition(StateSuccess)

	if cb := s.OnComplete; cb != nil {
		after = append(after, func() { cb(result) })
	}
	return after, nil
}

// fail releases resources and moves to the error state. The returned
// callbacks surface the message. Called with the mutex held.
func (s *Session) fail(message string) []func() {
	s.releaseStream()
	s.lastError = message
	after := s.transition(StateError)
	if cb := s.OnError; cb != nil {
		after = append(after, func() { cb(message) })
	}
	log.Warn("session error", "session", s.ID, "error", message)
	return after
}

// transition moves to a new state and returns the notification callback
// to run once the mutex is released. Called with the mutex held.
func (s *Session) transition(to State) []func() {
	from := s.state
	s.state = to
	if cb := s.OnTransition; cb != nil && from != to {
		return []func(){func() { cb(from, to) }}
	}
	return nil
}

func (s *Session) resetPoints() {
	s.calibPoints = s.calibPoints[:0]
	s.points = s.points[:0]
}

func (s *Session) releaseStream() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
