// Package quote folds completed wall measurements into quote requests
// and relays them to the external workflow webhook. There is no
// server-side persistence; the backend behavior is a stateless relay.
package quote

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wallcraft/wallscan/pkg/geometry"
	"github.com/wallcraft/wallscan/pkg/measure"
)

// Contact is the customer detail attached to a quote request.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Request is a complete quote request ready for the workflow webhook.
type Request struct {
	ID           string                    `json:"id"`
	Contact      Contact                   `json:"contact"`
	Walls        []measure.WallMeasurement `json:"walls"`
	TotalAreaSqM float64                   `json:"total_area_sq_m"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// Builder accumulates measurements for one quote. For heuristic
// results the net area is what the customer pays for, so it takes
// precedence over the gross area.
type Builder struct {
	mu    sync.Mutex
	walls []measure.WallMeasurement
}

// NewBuilder creates an empty quote builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add folds a completed measurement into the quote.
func (b *Builder) Add(m measure.WallMeasurement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.walls = append(b.walls, m)
}

// TotalAreaSqM returns the running area total, rounded for display.
func (b *Builder) TotalAreaSqM() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return geometry.Round(b.total(), 2)
}

// Walls returns a copy of the accumulated measurements.
func (b *Builder) Walls() []measure.WallMeasurement {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]measure.WallMeasurement, len(b.walls))
	copy(out, b.walls)
	return out
}

// Clear drops all accumulated measurements.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.walls = nil
}

// Build assembles the quote request for the given contact.
func (b *Builder) Build(contact Contact) Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	walls := make([]measure.WallMeasurement, len(b.walls))
	copy(walls, b.walls)

	return Request{
		ID:           uuid.NewString(),
		Contact:      contact,
		Walls:        walls,
		TotalAreaSqM: geometry.Round(b.total(), 2),
		CreatedAt:    time.Now().UTC(),
	}
}

// total sums billable area. Called with the mutex held.
func (b *Builder) total() float64 {
	sum := 0.0
	for _, m := range b.walls {
		if m.Method == measure.MethodEstimate {
			sum += m.NetAreaSqM
		} else {
			sum += m.AreaSqM
		}
	}
	return sum
}
