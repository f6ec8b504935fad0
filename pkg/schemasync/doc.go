// Package schemasync keeps an editor.Store converged with the application
// that owns the schema. It tracks two independent snapshots: the last schema
// adopted from the owner and the last schema emitted to it. Inbound deliveries
// are compared against the first, local edits against the second, so an owner
// echoing back what it was sent never re-triggers an emission.
package schemasync
