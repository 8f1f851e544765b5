// Package events provides the dispatcher controls route configured form
// events through, together with the factory that builds event payloads.
//
// A control whose configuration names an event for a form hook (for example
// onSuccess: users.saved) registers a single hook on the form that builds a
// FormEvent with its DataFactory and dispatches it by name. Listeners
// subscribed to that name run in registration order.
package events
