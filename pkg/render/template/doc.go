// Package template defines the template engine contract used by document
// renderers. Adapters live in subpackages.
package template
