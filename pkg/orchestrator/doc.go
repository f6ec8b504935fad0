// Package orchestrator wires the schema loader, field transformers, theme
// selection and the renderer registry into a single Generate call.
package orchestrator
