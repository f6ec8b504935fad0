// Package openapi describes a field schema's submission payload as an
// OpenAPI 3 document, verifies payloads against it and reads field schemas
// back from an exported document. kin-openapi types are used directly.
package openapi
