// Package notify delivers formatted alerts to external channels. Delivery
// is always best-effort and bounded: a slow or unreachable transport times
// out, and the caller only ever sees an error value to record, never a
// blocked or failed logging operation.
package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// defaultTimeout bounds a single delivery attempt.
const defaultTimeout = 5 * time.Second

// Event is one alert to deliver. Events are ephemeral; they are never
// persisted.
type Event struct {
	ID         string
	Level      string
	Subject    string
	Body       string
	Recipients []string
}

// Transport submits an event to one external channel.
type Transport interface {
	Send(ctx context.Context, event Event) error
}

// Dispatcher formats alerts and submits them to a transport under a bounded
// timeout. A disabled dispatcher is a no-op.
type Dispatcher struct {
	enabled    bool
	product    string
	recipients []string
	transport  Transport
	timeout    time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout overrides the per-attempt delivery bound.
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.timeout = d
		}
	}
}

// WithProduct overrides the product name embedded in subject lines.
func WithProduct(name string) Option {
	return func(dp *Dispatcher) { dp.product = name }
}

// NewDispatcher creates a Dispatcher. A nil transport or enabled=false
// yields a no-op dispatcher.
func NewDispatcher(enabled bool, transport Transport, recipients []string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		enabled:    enabled && transport != nil,
		product:    "sysward",
		recipients: recipients,
		transport:  transport,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enabled reports whether dispatch attempts will be made.
func (d *Dispatcher) Enabled() bool { return d.enabled }

// Dispatch formats and submits one alert. When the dispatcher is disabled it
// returns nil without contacting the transport. A transport failure or
// timeout is returned for the caller to record; it carries no obligation.
func (d *Dispatcher) Dispatch(level, message string) error {
	if !d.enabled {
		return nil
	}

	host, _ := os.Hostname()
	event := Event{
		ID:         uuid.NewString(),
		Level:      level,
		Subject:    fmt.Sprintf("[%s] %s alert on %s", d.product, level, host),
		Body:       message,
		Recipients: d.recipients,
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.transport.Send(ctx, event); err != nil {
		return fmt.Errorf("delivering %s notification: %w", level, err)
	}
	return nil
}
