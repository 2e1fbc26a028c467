// measure: one-shot wall estimate from a local camera
//
// Captures a single frame and prints the heuristic estimate. Useful for
// checking a camera and model setup without the full service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wallcraft/wallscan/internal/config"
	"github.com/wallcraft/wallscan/internal/log"
	"github.com/wallcraft/wallscan/pkg/camera"
	"github.com/wallcraft/wallscan/pkg/detect"
	"github.com/wallcraft/wallscan/pkg/estimate"
)

var (
	deviceID  = flag.Int("device", config.DefaultCameraID, "camera device index")
	modelPath = flag.String("model", config.ModelPath(), "object detection model path")
	noDetect  = flag.Bool("no-detect", false, "skip obstruction detection")
)

func main() {
	flag.Parse()
	log.Init(config.LogLevel())

	fmt.Println("📐 Wallscan one-shot estimate")
	fmt.Println("=============================")

	camCfg := camera.DefaultConfig()
	camCfg.DeviceID = *deviceID

	fmt.Printf("📷 Opening camera %d... ", *deviceID)
	stream, err := camera.Open(camCfg)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	defer stream.Stop()
	fmt.Println("✅")

	fmt.Print("📸 Capturing frame... ")
	jpeg, width, height, err := stream.CaptureJPEG()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ (%dx%d, %d KB)\n", width, height, len(jpeg)/1024)

	var detector *detect.Service
	if !*noDetect {
		cfg := detect.DefaultConfig()
		cfg.ModelPath = *modelPath
		detector = detect.NewService(cfg)
		if err := detector.Load(); err != nil {
			fmt.Printf("⚠️  Detector unavailable (%v), skipping obstructions\n", err)
		}
		defer detector.Close()
	}

	estimator := estimate.NewEstimator(estimate.DefaultConfig(), detector)
	result, err := estimator.Estimate(estimate.Frame{
		Width:  width,
		Height: height,
		JPEG:   jpeg,
	})
	if err != nil {
		fmt.Printf("❌ Estimate failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("╭───────────────────────────────────────────")
	fmt.Printf("│ Wall:         %s\n", result.Dimensions)
	fmt.Printf("│ Gross area:   %.2f m²\n", result.AreaSqM)
	fmt.Printf("│ Obstructions: %d\n", result.ObstructionCount)
	fmt.Printf("│ Net area:     %.2f m²\n", result.NetAreaSqM)
	fmt.Println("╰───────────────────────────────────────────")
}
