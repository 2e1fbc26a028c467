package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/estimate"
	"github.com/wallcraft/wallscan/pkg/geometry"
	"github.com/wallcraft/wallscan/pkg/hub"
	"github.com/wallcraft/wallscan/pkg/measure"
	"github.com/wallcraft/wallscan/pkg/quote"
	"github.com/wallcraft/wallscan/pkg/video"
	"github.com/wallcraft/wallscan/pkg/xr"
)

// handleStatus reports service health for the storefront page.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	detectorLoaded := s.cfg.Detector != nil && s.cfg.Detector.Loaded()

	sessionState := string(measure.StateIdle)
	if cur := s.sessions.Current(); cur != nil {
		sessionState = string(cur.State())
	}

	return c.JSON(fiber.Map{
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
		"detector_loaded": detectorLoaded,
		"relay_enabled":   s.cfg.Relay != nil,
		"session_state":   sessionState,
		"event_clients":   s.eventsHub.ClientCount(),
		"quote_walls":     len(s.builder.Walls()),
	})
}

// handleCapability gates the AR flow. The client probes its own runtime
// and reports the result; the server answers with the support decision
// and the user-facing message.
func (s *Server) handleCapability(c *fiber.Ctx) error {
	cap := xr.NewCapability(c.QueryBool("immersive"), c.QueryBool("planes"))
	return c.JSON(cap)
}

// ManualMeasureRequest carries the manually entered dimensions. Values
// arrive as strings straight from the form fields.
type ManualMeasureRequest struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// handleManualMeasure runs the manual-entry flow through a session and
// returns the completed measurement.
func (s *Server) handleManualMeasure(c *fiber.Ctx) error {
	var req ManualMeasureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	// API-driven sessions skip the display delay; there is no on-screen
	// result to let the user read first.
	session := s.sessions.Begin(measure.Config{DisplayDelay: 0})
	defer s.sessions.End()

	var result *measure.WallMeasurement
	session.OnComplete = func(m measure.WallMeasurement) {
		result = &m
	}
	session.OnTransition = func(from, to measure.State) {
		e := hub.NewSessionEvent(session.ID, "transition")
		e.From = string(from)
		e.To = string(to)
		s.broadcastEvent(e)
	}

	if err := session.Dispatch(measure.Event{Type: measure.EventStartManual}); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	err := session.Dispatch(measure.Event{
		Type:   measure.EventManualSubmit,
		Width:  req.Width,
		Height: req.Height,
	})
	if errors.Is(err, measure.ErrInvalidDimension) {
		return c.Status(422).JSON(fiber.Map{"error": "width and height must be positive numbers"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if result == nil {
		return c.Status(500).JSON(fiber.Map{"error": "session produced no result"})
	}

	s.builder.Add(*result)
	s.publishResult(session.ID, *result)
	return c.JSON(result)
}

// EstimateRequest optionally carries an uploaded frame. JPEG arrives
// base64-encoded in JSON. An empty body uses the latest ingested frame.
type EstimateRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	JPEG   []byte `json:"jpeg,omitempty"`
}

// handleEstimate runs the heuristic estimate on an uploaded frame or,
// when the body carries no dimensions, the latest camera frame from the
// websocket or WebRTC ingest.
func (s *Server) handleEstimate(c *fiber.Ctx) error {
	if s.cfg.Estimator == nil {
		return c.Status(503).JSON(fiber.Map{"error": "estimation not available"})
	}

	var req EstimateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	frame := estimate.Frame{Width: req.Width, Height: req.Height, JPEG: req.JPEG}
	if frame.Width == 0 && frame.Height == 0 {
		frame = s.cameraFrame()
	}

	result, err := s.cfg.Estimator.Estimate(frame)
	if errors.Is(err, estimate.ErrInvalidFrame) {
		return c.Status(422).JSON(fiber.Map{"error": "no usable camera frame available"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	s.builder.Add(result)
	s.publishResult("estimate", result)
	return c.JSON(result)
}

// PlaneMeasureRequest is the detected plane reported by the AR client.
type PlaneMeasureRequest struct {
	Orientation string            `json:"orientation"`
	Polygon     []geometry.Point3 `json:"polygon"`
}

// handlePlaneMeasure measures a vertical plane polygon from the AR flow.
func (s *Server) handlePlaneMeasure(c *fiber.Ctx) error {
	var req PlaneMeasureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if xr.Orientation(req.Orientation) != xr.OrientationVertical {
		return c.Status(422).JSON(fiber.Map{"error": "only vertical planes are measurable walls"})
	}

	result, err := xr.MeasurePlane(req.Polygon)
	if errors.Is(err, xr.ErrDegeneratePlane) {
		return c.Status(422).JSON(fiber.Map{"error": "plane polygon has no usable extent"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	s.builder.Add(result)
	s.publishResult("plane", result)
	return c.JSON(result)
}

// handleGetQuote returns the accumulated walls and running total.
func (s *Server) handleGetQuote(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"walls":           s.builder.Walls(),
		"total_area_sq_m": s.builder.TotalAreaSqM(),
	})
}

// SubmitQuoteRequest carries the customer contact for submission.
type SubmitQuoteRequest struct {
	Contact quote.Contact `json:"contact"`
}

// handleSubmitQuote builds the quote request from accumulated walls and
// relays it to the workflow webhook. The builder is cleared only after
// a successful relay so a failed submission can be retried.
func (s *Server) handleSubmitQuote(c *fiber.Ctx) error {
	var req SubmitQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(s.builder.Walls()) == 0 {
		return c.Status(422).JSON(fiber.Map{"error": "no measurements to quote"})
	}

	request := s.builder.Build(req.Contact)

	relayed := false
	if s.cfg.Relay != nil {
		err := s.cfg.Relay.Submit(c.Context(), request)
		switch {
		case errors.Is(err, quote.ErrNoWebhook):
			// Relay constructed but not configured; accept locally.
		case err != nil:
			log.Error("quote relay failed", "quote", request.ID, "error", err)
			return c.Status(502).JSON(fiber.Map{"error": "quote submission failed, try again"})
		default:
			relayed = true
		}
	}

	s.builder.Clear()

	e := hub.NewSessionEvent(request.ID, "quote")
	e.Payload = request
	s.broadcastEvent(e)

	return c.JSON(fiber.Map{"quote": request, "relayed": relayed})
}

// WebRTCOfferRequest is a browser SDP offer for camera publishing.
type WebRTCOfferRequest struct {
	SDP string `json:"sdp"`
}

// handleWebRTCOffer accepts a browser camera offer and returns the
// answer SDP. One publisher at a time; a new offer replaces the old.
func (s *Server) handleWebRTCOffer(c *fiber.Ctx) error {
	var req WebRTCOfferRequest
	if err := c.BodyParser(&req); err != nil || req.SDP == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing SDP offer"})
	}

	s.receiverMu.Lock()
	defer s.receiverMu.Unlock()

	if s.receiver != nil {
		s.receiver.Close()
		s.receiver = nil
	}

	receiver, err := video.NewReceiver()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	answer, err := receiver.Accept(req.SDP)
	if err != nil {
		receiver.Close()
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	s.receiver = receiver
	return c.JSON(fiber.Map{"sdp": answer})
}

// cameraFrame returns the freshest camera frame available, preferring
// the websocket ingest and falling back to the WebRTC receiver.
func (s *Server) cameraFrame() estimate.Frame {
	if frame := s.latestFrame(); frame.Width > 0 {
		return frame
	}

	s.receiverMu.Lock()
	receiver := s.receiver
	s.receiverMu.Unlock()
	if receiver == nil {
		return estimate.Frame{}
	}

	jpeg, w, h, err := receiver.Frame()
	if err != nil {
		return estimate.Frame{}
	}
	return estimate.Frame{Width: w, Height: h, JPEG: jpeg}
}

// publishResult broadcasts a completed measurement to the event feed.
func (s *Server) publishResult(session string, m measure.WallMeasurement) {
	e := hub.NewSessionEvent(session, "result")
	e.Payload = m
	s.broadcastEvent(e)
}
