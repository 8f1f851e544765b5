// Package template defines the seam form controls use to render their
// surrounding markup. Implementations live in subpackages.
package template
