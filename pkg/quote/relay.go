package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wallcraft/wallscan/internal/httpc"
	"github.com/wallcraft/wallscan/internal/log"
)

// ErrNoWebhook is returned when relaying without a configured webhook.
var ErrNoWebhook = errors.New("quote: no webhook URL configured")

// Relay forwards quote requests to the workflow automation webhook.
type Relay struct {
	url    string
	token  string
	client *http.Client
}

// NewRelay creates a relay for the given webhook URL. An empty URL
// disables relaying; Submit then returns ErrNoWebhook.
func NewRelay(url, token string) *Relay {
	return &Relay{
		url:    url,
		token:  token,
		client: httpc.NewClient(15 * time.Second),
	}
}

// Submit posts the quote request to the webhook.
func (r *Relay) Submit(ctx context.Context, req Request) error {
	if r.url == "" {
		return ErrNoWebhook
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("quote: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("quote: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("quote: webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("quote: webhook returned %d: %s", resp.StatusCode, string(body))
	}

	log.Info("quote relayed", "quote", req.ID, "walls", len(req.Walls), "total_sq_m", req.TotalAreaSqM)
	return nil
}
