// Package form holds fill-time state for one schema: the normalized value
// map, locally detected validation errors and errors reported by the owner.
// Renderers read from a Form; submit withholds the value map until every
// field validates.
package form
