// Package control provides FormControl, a configurable wrapper that produces a
// form from a factory, populates it through a builder, routes its lifecycle
// events to an event dispatcher or to local handlers, and renders it inside a
// card template.
//
// A control is meant to live for a single request:
//
//	ctrl := control.New(formFactory, dispatcher, cacheFactory,
//		control.WithName("user"),
//		control.WithConfigurator(store),
//		control.WithObject(&UserForm{}),
//	)
//	if err := ctrl.LoadValues(ctx, id); err != nil { ... }
//	if err := ctrl.Render(ctx, w); err != nil { ... }
package control
