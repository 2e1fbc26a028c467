package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Stream is an open capture device. Stop releases the device and is
// safe to call more than once; a stopped stream must never keep the
// device open.
type Stream struct {
	cfg Config

	mu      sync.Mutex
	cap     *gocv.VideoCapture
	stopped bool
}

// Open acquires the capture device. The caller owns the stream and
// must call Stop on every exit path.
func Open(cfg Config) (*Stream, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: invalid config: %v", errs)
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.DeviceID, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Stream{cfg: cfg, cap: cap}, nil
}

// CaptureJPEG grabs one frame and returns it JPEG-encoded along with
// its pixel dimensions.
func (s *Stream) CaptureJPEG() (jpeg []byte, width, height int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, 0, 0, fmt.Errorf("camera: stream stopped")
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := s.cap.Read(&img); !ok || img.Empty() {
		return nil, 0, 0, fmt.Errorf("camera: no frame from device %d", s.cfg.DeviceID)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{gocv.IMWriteJpegQuality, s.cfg.Quality})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, img.Cols(), img.Rows(), nil
}

// Stop releases the capture device. Idempotent.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.cap != nil {
		s.cap.Close()
		s.cap = nil
	}
}

// Stopped reports whether the device has been released.
func (s *Stream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
