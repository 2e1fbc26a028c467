// Package config provides configuration helpers for wallscan commands.
package config

import "os"

// Default service configuration.
const (
	DefaultPort      = "8080"
	DefaultModelPath = "models/yolov8n.onnx"
	DefaultCameraID  = 0
)

// Port returns the HTTP port from PORT env var or the default.
func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// LogLevel returns the log level from LOG_LEVEL env var.
// Falls back to "info" if not set.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// ModelPath returns the object-detection model path from MODEL_PATH
// env var or the default.
func ModelPath() string {
	if p := os.Getenv("MODEL_PATH"); p != "" {
		return p
	}
	return DefaultModelPath
}

// WebhookURL returns the workflow webhook URL from WEBHOOK_URL env var.
// Empty means quote relaying is disabled.
func WebhookURL() string {
	return os.Getenv("WEBHOOK_URL")
}

// WebhookToken returns the bearer token for the workflow webhook, if any.
func WebhookToken() string {
	return os.Getenv("WEBHOOK_TOKEN")
}
