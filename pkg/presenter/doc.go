// Package presenter renders previously captured values read-only.
//
// A Presenter turns a field definition plus its stored value into a View: a
// display-ready projection that the HTML, text and JSON outputs share. Field
// semantics come from the fieldtype registry, the same table the fill-time
// renderers use, so a value is always displayed the way it was captured.
package presenter
