// Package render holds the renderer contract shared by the fill-time and
// read-only outputs: the registry, per-request RenderOptions, mapping of owner
// error payloads onto field ids, the submission codec, hidden fields and the
// translator seam used by localized messages.
package render
