// Package model defines the page data consumed by the template interpreter and
// renderers: the page tree of Components, the tiered Part and image catalogs,
// the per-tier CSS bundles and the opaque backend data map. Component field
// values are modelled as a small tagged union (Value) so the interpreter can
// distinguish unset fields from explicitly empty ones without reflecting over
// arbitrary JSON. Field descriptors produced by pkg/fields are also defined
// here so editors and renderers can share them without importing the
// extractor.
package model
