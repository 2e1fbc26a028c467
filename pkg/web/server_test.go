package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wallcraft/wallscan/pkg/estimate"
	"github.com/wallcraft/wallscan/pkg/measure"
	"github.com/wallcraft/wallscan/pkg/quote"
)

func newTestServer(t *testing.T, relay *quote.Relay) *Server {
	t.Helper()
	return NewServer(Config{
		Port:      "0",
		Estimator: estimate.NewEstimator(estimate.DefaultConfig(), nil),
		Relay:     relay,
	})
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeMeasurement(t *testing.T, resp *http.Response) measure.WallMeasurement {
	t.Helper()
	var m measure.WallMeasurement
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return m
}

func TestManualMeasure(t *testing.T) {
	s := newTestServer(t, nil)

	resp := postJSON(t, s, "/api/measure/manual", ManualMeasureRequest{
		Width: "4.5", Height: "2.8",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	m := decodeMeasurement(t, resp)
	if m.AreaSqM != 12.6 {
		t.Errorf("Expected area 12.60, got %v", m.AreaSqM)
	}
	if m.Dimensions != "4.50m x 2.80m" {
		t.Errorf("Unexpected dimensions label: %q", m.Dimensions)
	}
	if m.Method != measure.MethodManual {
		t.Errorf("Expected manual method, got %s", m.Method)
	}

	// The measurement lands in the quote builder.
	if got := s.builder.TotalAreaSqM(); got != 12.6 {
		t.Errorf("Expected builder total 12.60, got %v", got)
	}
}

func TestManualMeasureRejectsInvalid(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tc := range []ManualMeasureRequest{
		{Width: "0", Height: "2.8"},
		{Width: "-1", Height: "2.8"},
		{Width: "abc", Height: "2.8"},
		{Width: "", Height: ""},
	} {
		resp := postJSON(t, s, "/api/measure/manual", tc)
		if resp.StatusCode != 422 {
			t.Errorf("Input %+v: expected 422, got %d", tc, resp.StatusCode)
		}
	}

	if len(s.builder.Walls()) != 0 {
		t.Error("Invalid input should not reach the quote builder")
	}
}

func TestEstimateFromUploadedFrame(t *testing.T) {
	s := newTestServer(t, nil)

	resp := postJSON(t, s, "/api/measure/estimate", EstimateRequest{
		Width: 1920, Height: 1080,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	m := decodeMeasurement(t, resp)
	if m.WidthM != 5.8 {
		t.Errorf("Expected width 5.8, got %v", m.WidthM)
	}
	if m.AreaSqM != 15.66 {
		t.Errorf("Expected gross 15.66, got %v", m.AreaSqM)
	}
	if m.NetAreaSqM != 12.66 {
		t.Errorf("Expected net 12.66, got %v", m.NetAreaSqM)
	}
}

func TestEstimateWithoutFrame(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/api/measure/estimate", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Errorf("Expected 422 with no frame available, got %d", resp.StatusCode)
	}
}

func TestEstimateUsesIngestedFrame(t *testing.T) {
	s := newTestServer(t, nil)
	s.storeFrame(estimate.Frame{Width: 1920, Height: 1080})

	req := httptest.NewRequest("POST", "/api/measure/estimate", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	m := decodeMeasurement(t, resp)
	if m.AreaSqM != 15.66 {
		t.Errorf("Expected gross 15.66 from ingested frame, got %v", m.AreaSqM)
	}
}

func TestPlaneMeasure(t *testing.T) {
	s := newTestServer(t, nil)

	body := map[string]interface{}{
		"orientation": "vertical",
		"polygon": []map[string]float64{
			{"x": 0, "y": 0, "z": 0},
			{"x": 4, "y": 0, "z": 0},
			{"x": 4, "y": 2.5, "z": 0},
			{"x": 0, "y": 2.5, "z": 0},
		},
	}
	resp := postJSON(t, s, "/api/measure/plane", body)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	m := decodeMeasurement(t, resp)
	if m.AreaSqM != 10.0 {
		t.Errorf("Expected area 10.00, got %v", m.AreaSqM)
	}
	if m.Confidence != 0.85 {
		t.Errorf("Expected confidence 0.85, got %v", m.Confidence)
	}
}

func TestPlaneMeasureRejectsHorizontal(t *testing.T) {
	s := newTestServer(t, nil)

	resp := postJSON(t, s, "/api/measure/plane", map[string]interface{}{
		"orientation": "horizontal",
		"polygon":     []map[string]float64{{"x": 0, "y": 0, "z": 0}},
	})
	if resp.StatusCode != 422 {
		t.Errorf("Expected 422 for horizontal plane, got %d", resp.StatusCode)
	}
}

func TestCapability(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/api/capability?immersive=true&planes=true", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	var cap struct {
		Supported bool   `json:"supported"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cap); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !cap.Supported {
		t.Error("Expected supported capability")
	}

	req = httptest.NewRequest("GET", "/api/capability?immersive=false&planes=false", nil)
	resp, err = s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cap); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cap.Supported {
		t.Error("Expected unsupported capability")
	}
	if cap.Message == "" {
		t.Error("Expected fallback guidance message")
	}
}

func TestQuoteSubmission(t *testing.T) {
	var received quote.Request
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Bad webhook payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	s := newTestServer(t, quote.NewRelay(webhook.URL, "token"))

	postJSON(t, s, "/api/measure/manual", ManualMeasureRequest{Width: "4.5", Height: "2.8"})

	resp := postJSON(t, s, "/api/quote", SubmitQuoteRequest{
		Contact: quote.Contact{Name: "Dana", Email: "dana@example.com"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Quote   quote.Request `json:"quote"`
		Relayed bool          `json:"relayed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !out.Relayed {
		t.Error("Expected quote to be relayed")
	}
	if received.TotalAreaSqM != 12.6 {
		t.Errorf("Expected webhook total 12.60, got %v", received.TotalAreaSqM)
	}

	// Builder cleared after successful submission.
	if len(s.builder.Walls()) != 0 {
		t.Error("Expected builder cleared after submission")
	}
}

func TestQuoteSubmissionEmpty(t *testing.T) {
	s := newTestServer(t, nil)

	resp := postJSON(t, s, "/api/quote", SubmitQuoteRequest{
		Contact: quote.Contact{Name: "Dana"},
	})
	if resp.StatusCode != 422 {
		t.Errorf("Expected 422 with no measurements, got %d", resp.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if status["detector_loaded"] != false {
		t.Error("Expected detector_loaded false without a detector")
	}
	if status["session_state"] != "idle" {
		t.Errorf("Expected idle session state, got %v", status["session_state"])
	}
}
