// wallscan: measurement service for the storefront quote flow
// Serves the measurement API, websocket feeds, and WebRTC camera ingest.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wallcraft/wallscan/internal/config"
	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/detect"
	"github.com/wallcraft/wallscan/pkg/estimate"
	"github.com/wallcraft/wallscan/pkg/quote"
	"github.com/wallcraft/wallscan/pkg/web"
)

var (
	version   = "1.0.0"
	port      = flag.String("port", config.Port(), "HTTP server port")
	modelPath = flag.String("model", config.ModelPath(), "object detection model path")
	staticDir = flag.String("static", "./web", "static files directory")
	noDetect  = flag.Bool("no-detect", false, "disable obstruction detection")
)

func main() {
	flag.Parse()
	log.Init(config.LogLevel())

	fmt.Println()
	fmt.Println("📐 Wallscan v" + version)
	fmt.Println("   Wall measurement service")
	fmt.Println()

	// Obstruction detector. The service degrades to aspect-ratio
	// estimates when the model is missing, so a load failure is not
	// fatal.
	var detector *detect.Service
	if !*noDetect {
		cfg := detect.DefaultConfig()
		cfg.ModelPath = *modelPath
		detector = detect.NewService(cfg)
		if err := detector.Load(); err != nil {
			log.Warn("detector unavailable, estimates will skip obstructions", "error", err)
		}
	}

	estimator := estimate.NewEstimator(estimate.DefaultConfig(), detector)

	var relay *quote.Relay
	if url := config.WebhookURL(); url != "" {
		relay = quote.NewRelay(url, config.WebhookToken())
		log.Info("quote relay enabled")
	} else {
		log.Warn("QUOTE_WEBHOOK_URL not set, quotes will not be relayed")
	}

	server := web.NewServer(web.Config{
		Port:      *port,
		Detector:  detector,
		Estimator: estimator,
		Relay:     relay,
		StaticDir: *staticDir,
	})
	server.StartAsync()

	log.Info("wallscan ready",
		"api", fmt.Sprintf("http://localhost:%s/api/status", *port),
		"events", fmt.Sprintf("ws://localhost:%s/ws/events", *port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n👋 Shutting down...")

	if err := server.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if detector != nil {
		detector.Close()
	}
}
