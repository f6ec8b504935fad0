// Package editor holds the author-time schema buffer. Store keeps an ordered,
// identity-stable list of model.FieldDefinition values plus the UI-only
// "expanded field" pointer, and exposes the mutations an editor needs: add,
// remove, partial update, reorder and option edits. Every mutation is applied
// under the store lock and observers receive one consistent snapshot per
// mutation, so no half-applied reorder is ever visible.
package editor
