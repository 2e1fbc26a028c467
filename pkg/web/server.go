// Package web exposes the measurement engine to the storefront UI
// over a Fiber API plus websocket feeds.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/detect"
	"github.com/wallcraft/wallscan/pkg/estimate"
	"github.com/wallcraft/wallscan/pkg/hub"
	"github.com/wallcraft/wallscan/pkg/measure"
	"github.com/wallcraft/wallscan/pkg/quote"
	"github.com/wallcraft/wallscan/pkg/video"
)

// Config holds the server's collaborators. Detector and Relay may be
// nil; the corresponding features then report as unavailable.
type Config struct {
	Port      string
	Detector  *detect.Service
	Estimator *estimate.Estimator
	Relay     *quote.Relay

	// StaticDir is served at the root when non-empty.
	StaticDir string
}

// Server is the storefront-facing measurement API.
type Server struct {
	app *fiber.App
	cfg Config

	sessions *measure.Manager
	builder  *quote.Builder

	// eventsHub fans session events out to dashboard clients.
	eventsHub *hub.Hub

	// ingested holds the most recent camera frame from either the
	// websocket ingest or the WebRTC receiver.
	frameMu  sync.RWMutex
	ingested estimate.Frame

	receiverMu sync.Mutex
	receiver   *video.Receiver

	started time.Time
}

// NewServer builds the server and registers all routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:       cfg,
		sessions:  measure.NewManager(),
		builder:   quote.NewBuilder(),
		eventsHub: hub.New("events"),
		started:   time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Wallscan",
		DisableStartupMessage: true,
	})

	// CORS for the storefront page during local development
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/capability", s.handleCapability)
	api.Post("/measure/manual", s.handleManualMeasure)
	api.Post("/measure/estimate", s.handleEstimate)
	api.Post("/measure/plane", s.handlePlaneMeasure)
	api.Get("/quote", s.handleGetQuote)
	api.Post("/quote", s.handleSubmitQuote)
	api.Post("/webrtc/offer", s.handleWebRTCOffer)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	registerIngest(app, s)

	s.app = app
	return s
}

// Start runs the event hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.eventsHub.Run()
	log.Info("web server listening", "port", s.cfg.Port)
	return s.app.Listen(":" + s.cfg.Port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server and any live WebRTC session.
func (s *Server) Shutdown() error {
	s.receiverMu.Lock()
	if s.receiver != nil {
		s.receiver.Close()
		s.receiver = nil
	}
	s.receiverMu.Unlock()

	s.sessions.End()
	return s.app.Shutdown()
}

// EventsHub returns the session event hub for external broadcasters.
func (s *Server) EventsHub() *hub.Hub {
	return s.eventsHub
}

// handleEventsWS attaches a dashboard client to the event hub.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.eventsHub, c)
	client.Run()
}

// storeFrame records the latest camera frame for the estimate path.
func (s *Server) storeFrame(frame estimate.Frame) {
	s.frameMu.Lock()
	s.ingested = frame
	s.frameMu.Unlock()
}

// latestFrame returns the most recent ingested frame, which may be
// zero-valued when nothing has arrived yet.
func (s *Server) latestFrame() estimate.Frame {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.ingested
}

// broadcastEvent publishes a session event to the dashboard feed.
func (s *Server) broadcastEvent(e hub.SessionEvent) {
	s.eventsHub.BroadcastEvent(e)
}
