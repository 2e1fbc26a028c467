package web

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/estimate"
)

// IngestFrame is one camera frame pushed by the capture page. JPEG is
// base64 under encoding/json.
type IngestFrame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	JPEG   []byte `json:"jpeg"`
}

// registerIngest mounts the camera-frame ingest endpoint. The capture
// page streams frames here while the user lines up the wall; the server
// keeps the latest one for the estimate path and mirrors it to the
// event feed as a preview.
func registerIngest(app *fiber.App, s *Server) {
	app.Get("/ws/ingest", websocket.New(func(c *websocket.Conn) {
		log.Info("camera ingest connected", "remote", c.RemoteAddr().String())
		defer log.Info("camera ingest disconnected")

		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}

			var frame IngestFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				log.Warn("ingest frame parse error", "error", err)
				continue
			}
			if frame.Width <= 0 || frame.Height <= 0 || len(frame.JPEG) == 0 {
				continue
			}

			s.storeFrame(estimate.Frame{
				Width:  frame.Width,
				Height: frame.Height,
				JPEG:   frame.JPEG,
			})

			// Mirror to dashboards as a live preview.
			s.eventsHub.BroadcastBinary(frame.JPEG)
		}
	}))
}
