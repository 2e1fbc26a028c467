package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wallcraft/wallscan/pkg/measure"
)

func TestBuilder_FoldsMeasurements(t *testing.T) {
	b := NewBuilder()

	b.Add(measure.NewWallMeasurement(4.5, 2.8, measure.MethodManual)) // 12.60

	// Estimates contribute their net area, not the gross.
	est := measure.NewWallMeasurement(5.8, 2.7, measure.MethodEstimate) // gross 15.66
	est.NetAreaSqM = 12.66
	b.Add(est)

	if got := b.TotalAreaSqM(); got != 25.26 {
		t.Errorf("Expected total 25.26, got %v", got)
	}
	if walls := b.Walls(); len(walls) != 2 {
		t.Errorf("Expected 2 walls, got %d", len(walls))
	}
}

func TestBuilder_BuildAndClear(t *testing.T) {
	b := NewBuilder()
	b.Add(measure.NewWallMeasurement(4.0, 2.5, measure.MethodPlane))

	req := b.Build(Contact{Name: "Dana", Email: "dana@example.com"})

	if req.ID == "" {
		t.Error("Expected generated quote ID")
	}
	if req.TotalAreaSqM != 10.0 {
		t.Errorf("Expected total 10.00, got %v", req.TotalAreaSqM)
	}
	if req.CreatedAt.IsZero() {
		t.Error("Expected timestamp")
	}

	b.Clear()
	if b.TotalAreaSqM() != 0 {
		t.Errorf("Expected zero total after clear, got %v", b.TotalAreaSqM())
	}
}

func TestRelay_Submit(t *testing.T) {
	var received Request
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewBuilder()
	b.Add(measure.NewWallMeasurement(4.5, 2.8, measure.MethodManual))
	req := b.Build(Contact{Name: "Dana", Email: "dana@example.com"})

	relay := NewRelay(srv.URL, "secret-token")
	if err := relay.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if auth != "Bearer secret-token" {
		t.Errorf("Expected bearer token header, got %q", auth)
	}
	if received.ID != req.ID {
		t.Errorf("Expected quote %s relayed, got %s", req.ID, received.ID)
	}
	if received.TotalAreaSqM != 12.6 {
		t.Errorf("Expected total 12.60, got %v", received.TotalAreaSqM)
	}
}

func TestRelay_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow down", http.StatusBadGateway)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, "")
	err := relay.Submit(context.Background(), Request{ID: "q1"})
	if err == nil {
		t.Fatal("Expected error on 502")
	}
}

func TestRelay_Disabled(t *testing.T) {
	relay := NewRelay("", "")
	if err := relay.Submit(context.Background(), Request{}); err != ErrNoWebhook {
		t.Errorf("Expected ErrNoWebhook, got %v", err)
	}
}
