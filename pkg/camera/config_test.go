package camera

import "testing"

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Expected default config valid, got %v", errs)
	}

	cfg = HD1080Config()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Expected 1080p config valid, got %v", errs)
	}

	bad := Config{DeviceID: -1, Width: 10, Height: 10, Framerate: 0, Quality: 0}
	if errs := bad.Validate(); len(errs) != 5 {
		t.Errorf("Expected 5 validation errors, got %d: %v", len(errs), errs)
	}
}
