package events

import "github.com/goliatone/go-formcontrol/pkg/form"

// FormEvent is the payload dispatched for form lifecycle events.
type FormEvent struct {
	Name    string
	Form    *form.Form
	Control any
}

// Values returns the form values at dispatch time.
func (e *FormEvent) Values() form.Values {
	if e == nil || e.Form == nil {
		return nil
	}
	return e.Form.Values()
}

// DataFactory builds event payloads from (form, control, event name).
type DataFactory interface {
	Create(f *form.Form, control any, event string) any
}

// DataFactoryFunc adapts a function into a DataFactory.
type DataFactoryFunc func(f *form.Form, control any, event string) any

// Create calls the underlying function.
func (fn DataFactoryFunc) Create(f *form.Form, control any, event string) any {
	return fn(f, control, event)
}

// FormEventFactory is the default DataFactory producing *FormEvent values.
type FormEventFactory struct{}

// Create implements DataFactory.
func (FormEventFactory) Create(f *form.Form, control any, event string) any {
	return &FormEvent{Name: event, Form: f, Control: control}
}
