// Package orchestrator wires the load → backfill → transform → theme →
// render pipeline behind a single entry point.
package orchestrator
