package control

import "errors"

var (
	// ErrNotFieldControl is returned when a named component is missing or is
	// not a field control.
	ErrNotFieldControl = errors.New("control: component is not a field control")
	// ErrNoValuesLoader is returned by LoadValues when no values loader was
	// registered.
	ErrNoValuesLoader = errors.New("control: values loader not set")
	// ErrEmptyValues is returned by LoadValues when the loader found nothing
	// for the requested id.
	ErrEmptyValues = errors.New("control: no values for id")
)
