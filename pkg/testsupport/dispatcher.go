package testsupport

import (
	"context"
	"sync"
)

// DispatchCall is one recorded Dispatch invocation.
type DispatchCall struct {
	Name  string
	Event any
}

// RecordingDispatcher records dispatched events and returns Err for each.
type RecordingDispatcher struct {
	Err error

	mu    sync.Mutex
	calls []DispatchCall
}

// Dispatch records the call.
func (d *RecordingDispatcher) Dispatch(_ context.Context, name string, event any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, DispatchCall{Name: name, Event: event})
	return d.Err
}

// Calls returns the recorded calls in order.
func (d *RecordingDispatcher) Calls() []DispatchCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DispatchCall(nil), d.calls...)
}

// Names returns the dispatched event names in order.
func (d *RecordingDispatcher) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.calls))
	for _, call := range d.calls {
		out = append(out, call.Name)
	}
	return out
}
