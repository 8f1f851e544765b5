// Package form implements the server-side form the control wraps: an ordered
// set of field controls, form level errors, the submit/validate/success/error
// hook lists, and a renderer that lays fields out using wrapper hints.
//
// Wrappers describe the HTML container used for each section of the form as
// "tag attr=..." strings, for example `div class="form-group row"`. An empty
// string means the section is rendered without a container.
package form
