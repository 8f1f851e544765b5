package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "formcontrol/events"

// Listener handles a dispatched event.
type Listener func(ctx context.Context, event any) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for dispatch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// WithMetrics registers dispatch counters and a duration histogram on reg.
// Without it the dispatcher records no metrics.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(d *Dispatcher) {
		if reg == nil {
			return
		}
		if namespace == "" {
			namespace = "formcontrol"
		}
		d.metrics = newMetrics(reg, namespace)
	}
}

// Dispatcher fans events out to listeners subscribed by name. It is safe for
// concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *metrics
}

// NewDispatcher creates a dispatcher with no listeners.
func NewDispatcher(options ...Option) *Dispatcher {
	d := &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    slog.Default(),
		tracer:    otel.Tracer(defaultTracerName),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Subscribe registers a listener for name.
func (d *Dispatcher) Subscribe(name string, listener Listener) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("events: event name is required")
	}
	if listener == nil {
		return errors.New("events: listener is required")
	}
	d.mu.Lock()
	d.listeners[name] = append(d.listeners[name], listener)
	d.mu.Unlock()
	return nil
}

// MustSubscribe panics on registration failure. Useful for init-time wiring.
func (d *Dispatcher) MustSubscribe(name string, listener Listener) {
	if err := d.Subscribe(name, listener); err != nil {
		panic(err)
	}
}

// HasListeners reports whether anything is subscribed to name.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[strings.TrimSpace(name)]) > 0
}

// Dispatch invokes the listeners for name in order. The first listener error
// stops dispatch and is returned wrapped.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, event any) error {
	if ctx == nil {
		return errors.New("events: context is required")
	}
	name = strings.TrimSpace(name)

	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[name]...)
	d.mu.RUnlock()

	ctx, span := d.tracer.Start(ctx, "formcontrol.dispatch",
		trace.WithAttributes(
			attribute.String("event.name", name),
			attribute.Int("event.listeners", len(listeners)),
		),
	)
	defer span.End()

	start := time.Now()
	err := d.invoke(ctx, name, event, listeners)
	d.metrics.observe(name, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("event dispatch failed", "event", name, "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	d.logger.Debug("event dispatched", "event", name, "listeners", len(listeners))
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, name string, event any, listeners []Listener) error {
	for i, listener := range listeners {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := listener(ctx, event); err != nil {
			return fmt.Errorf("events: %s listener %d: %w", name, i, err)
		}
	}
	return nil
}
