// Package broker publishes domain events such as job.posted to interested
// consumers.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// Routing keys.
const (
	JobPosted                = "job.posted"
	ApplicationSubmitted     = "application.submitted"
	ApplicationStatusChanged = "application.status_changed"
	ResumeProcessed          = "resume.processed"
)

// ErrClosed is returned by publishers after Close.
var ErrClosed = errors.New("publisher closed")

// Envelope is the wire format of every event.
type Envelope struct {
	RoutingKey string          `json:"routing_key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher sends events. Publish must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

func encode(routingKey string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{RoutingKey: routingKey, OccurredAt: time.Now().UTC(), Payload: raw})
}

// LogPublisher writes events to the log. It is the default when no broker
// is configured.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher creates a LogPublisher; a nil logger uses the global one.
func NewLogPublisher(l logger.Logger) *LogPublisher {
	if l == nil {
		l = logger.Named("events")
	}
	return &LogPublisher{logger: l}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, payload)
	if err != nil {
		metrics.RecordEventPublished(routingKey, "error")
		return err
	}
	p.logger.Info(ctx, "event", logger.String("routing_key", routingKey), logger.Int("bytes", len(body)))
	metrics.RecordEventPublished(routingKey, "logged")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory. Tests use it to assert what a
// service emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
	closed bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, payload)
	if err != nil {
		return err
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.events = append(r.events, env)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Events returns a copy of the recorded envelopes.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
