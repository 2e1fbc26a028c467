package detect

import (
	"sync"

	"github.com/wallcraft/wallscan/internal/log"
)

// Service wraps a Detector with an explicit load lifecycle. The model is
// loaded once and reused for the process lifetime; a failed load can be
// retried. Callers that can tolerate a missing detector check Loaded
// and degrade instead of failing.
type Service struct {
	cfg     Config
	factory func(Config) (Detector, error)

	mu  sync.Mutex
	det Detector
}

// NewService creates a detector service backed by the YOLO detector.
// The model is not loaded until Load is called.
func NewService(cfg Config) *Service {
	return &Service{
		cfg: cfg,
		factory: func(c Config) (Detector, error) {
			return NewYOLO(c)
		},
	}
}

// NewServiceWith creates a service around an existing detector,
// bypassing model loading. Used in tests.
func NewServiceWith(det Detector) *Service {
	return &Service{det: det}
}

// Load loads the detection model. Idempotent once successful.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.det != nil {
		return nil
	}

	det, err := s.factory(s.cfg)
	if err != nil {
		log.Warn("detector load failed", "model", s.cfg.ModelPath, "error", err)
		return err
	}

	log.Info("detector loaded", "model", s.cfg.ModelPath)
	s.det = det
	return nil
}

// Loaded reports whether the model is ready.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.det != nil
}

// Detect runs detection on a JPEG frame. Returns ErrNotLoaded if the
// model has not been loaded.
func (s *Service) Detect(jpeg []byte) ([]Object, error) {
	s.mu.Lock()
	det := s.det
	s.mu.Unlock()

	if det == nil {
		return nil, ErrNotLoaded
	}
	return det.Detect(jpeg)
}

// Close releases the detector, if loaded.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.det == nil {
		return nil
	}
	err := s.det.Close()
	s.det = nil
	return err
}
