// Package video provides WebRTC camera ingest for the estimate flow.
// The storefront page publishes the phone camera as a WebRTC track;
// the receiver keeps the latest decoded frame for analysis.
package video

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
	"gocv.io/x/gocv"

	"github.com/wallcraft/wallscan/internal/log"
)

// decodeInterval is how often buffered H264 data is decoded to a frame.
const decodeInterval = 200 * time.Millisecond

// Receiver accepts one browser WebRTC offer and receives its camera
// track, keeping the latest JPEG frame available for the estimator.
type Receiver struct {
	pc      *webrtc.PeerConnection
	workDir string

	frameMu     sync.RWMutex
	latestFrame []byte
	frameW      int
	frameH      int

	mu     sync.Mutex
	closed bool
}

// NewReceiver creates an idle receiver.
func NewReceiver() (*Receiver, error) {
	dir, err := os.MkdirTemp("", "wallscan-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("video: temp dir: %w", err)
	}
	return &Receiver{workDir: dir}, nil
}

// Accept answers a browser offer and starts receiving video. Uses a
// single non-trickle exchange: the returned answer carries all ICE
// candidates.
func (r *Receiver) Accept(offerSDP string) (string, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return "", fmt.Errorf("video: peer connection: %w", err)
	}

	if _, err = pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	}); err != nil {
		pc.Close()
		return "", fmt.Errorf("video: add transceiver: %w", err)
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		log.Info("video track received", "kind", track.Kind().String(), "codec", track.Codec().MimeType)
		if track.Kind() == webrtc.RTPCodecTypeVideo {
			go r.handleTrack(track)
		}
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Debug("video connection state", "state", state.String())
	})

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: offerSDP}
	if err := pc.SetRemoteDescription(offer); err != nil {
		pc.Close()
		return "", fmt.Errorf("video: set remote description: %w", err)
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		pc.Close()
		return "", fmt.Errorf("video: create answer: %w", err)
	}

	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		pc.Close()
		return "", fmt.Errorf("video: set local description: %w", err)
	}
	<-gathered

	r.mu.Lock()
	r.pc = pc
	r.mu.Unlock()

	return pc.LocalDescription().SDP, nil
}

// handleTrack collects H264 payload from RTP packets and decodes a
// frame every decodeInterval.
func (r *Receiver) handleTrack(track *webrtc.TrackRemote) {
	var nalBuffer []byte
	var pkt *rtp.Packet
	lastDecode := time.Now()

	for {
		r.mu.Lock()
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return
		}

		var err error
		pkt, _, err = track.ReadRTP()
		if err != nil {
			return
		}

		nalBuffer = append(nalBuffer, pkt.Payload...)

		if time.Since(lastDecode) > decodeInterval {
			r.decodeToJPEG(nalBuffer)
			nalBuffer = nalBuffer[:0]
			lastDecode = time.Now()
		}
	}
}

// decodeToJPEG decodes buffered H264 data via ffmpeg and stores the
// resulting frame with its dimensions.
func (r *Receiver) decodeToJPEG(h264Data []byte) {
	if len(h264Data) < 100 {
		return
	}

	h264Path := filepath.Join(r.workDir, "ingest.h264")
	jpegPath := filepath.Join(r.workDir, "frame.jpg")

	if err := os.WriteFile(h264Path, h264Data, 0o644); err != nil {
		return
	}

	cmd := exec.Command("ffmpeg", "-y", "-i", h264Path, "-vframes", "1", "-f", "image2", jpegPath)
	if err := cmd.Run(); err != nil {
		return
	}

	jpegData, err := os.ReadFile(jpegPath)
	if err != nil || len(jpegData) < 1000 {
		return
	}

	// Decode once to learn the frame dimensions the estimator needs.
	img, err := gocv.IMDecode(jpegData, gocv.IMReadColor)
	if err != nil || img.Empty() {
		return
	}
	w, h := img.Cols(), img.Rows()
	img.Close()

	r.frameMu.Lock()
	r.latestFrame = jpegData
	r.frameW = w
	r.frameH = h
	r.frameMu.Unlock()
}

// Frame returns the latest frame as JPEG bytes with its dimensions.
func (r *Receiver) Frame() (jpeg []byte, width, height int, err error) {
	r.frameMu.RLock()
	defer r.frameMu.RUnlock()

	if r.latestFrame == nil {
		return nil, 0, 0, fmt.Errorf("video: no frame available")
	}

	out := make([]byte, len(r.latestFrame))
	copy(out, r.latestFrame)
	return out, r.frameW, r.frameH, nil
}

// WaitForFrame polls until a frame is available or the timeout expires.
func (r *Receiver) WaitForFrame(timeout time.Duration) ([]byte, int, int, error) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		frame, w, h, err := r.Frame()
		if err == nil {
			return frame, w, h, nil
		}
		time.Sleep(50 * time.Millisecond)
	}

	return nil, 0, 0, fmt.Errorf("video: timeout waiting for frame")
}

// Close tears down the connection and scratch space.
func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	if r.pc != nil {
		r.pc.Close()
	}
	os.RemoveAll(r.workDir)
}
