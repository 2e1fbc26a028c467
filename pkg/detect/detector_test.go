package detect

import (
	"errors"
	"testing"
)

func TestFilterObstructions(t *testing.T) {
	objects := []Object{
		{Class: "couch", Score: 0.9, Box: Box{W: 100, H: 50}},
		{Class: "couch", Score: 0.5},  // at threshold, excluded
		{Class: "couch", Score: 0.3},  // below threshold
		{Class: "dog", Score: 0.95},   // not on allow-list
		{Class: "person", Score: 0.6}, // people count as obstructions
		{Class: "cup", Score: 0.99},   // not on allow-list
	}

	filtered := FilterObstructions(objects, 0.5)

	if len(filtered) != 2 {
		t.Fatalf("Expected 2 obstructions, got %d: %+v", len(filtered), filtered)
	}
	if filtered[0].Class != "couch" || filtered[1].Class != "person" {
		t.Errorf("Unexpected classes: %+v", filtered)
	}
}

func TestIsObstruction(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"couch", true},
		{"refrigerator", true},
		{"person", true},
		{"dog", false},
		{"pizza", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsObstruction(tt.class); got != tt.want {
			t.Errorf("IsObstruction(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestBox_Area(t *testing.T) {
	b := Box{X: 10, Y: 20, W: 100, H: 50}
	if b.Area() != 5000 {
		t.Errorf("Expected area 5000, got %v", b.Area())
	}
}

func TestService_LoadFailureIsRetryable(t *testing.T) {
	loadErr := errors.New("model file not found")
	calls := 0

	s := &Service{
		cfg: DefaultConfig(),
		factory: func(Config) (Detector, error) {
			calls++
			if calls == 1 {
				return nil, loadErr
			}
			return &Mock{}, nil
		},
	}

	if err := s.Load(); err == nil {
		t.Fatal("Expected first load to fail")
	}
	if s.Loaded() {
		t.Error("Expected not loaded after failure")
	}
	if _, err := s.Detect(nil); err != ErrNotLoaded {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}

	if err := s.Load(); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if !s.Loaded() {
		t.Error("Expected loaded after retry")
	}

	// Further loads are no-ops
	if err := s.Load(); err != nil {
		t.Errorf("Expected idempotent load, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 factory calls, got %d", calls)
	}
}

func TestService_DetectDelegates(t *testing.T) {
	mock := &Mock{Objects: []Object{{Class: "chair", Score: 0.8}}}
	s := NewServiceWith(mock)

	if !s.Loaded() {
		t.Fatal("Expected pre-built service to be loaded")
	}

	objects, err := s.Detect([]byte("frame"))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(objects) != 1 || objects[0].Class != "chair" {
		t.Errorf("Unexpected objects: %+v", objects)
	}
	if mock.Calls != 1 {
		t.Errorf("Expected 1 detector call, got %d", mock.Calls)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.Loaded() {
		t.Error("Expected unloaded after close")
	}
}
