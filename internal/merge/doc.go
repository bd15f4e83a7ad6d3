// Package merge holds the pure reconciliation rules of the sync engine.
//
// It contains the per-entity-type merge policy registry, the staleness
// detector, the field-level merge resolver and the four-way diff used by the
// conflict resolution flow. Nothing in this package performs I/O or keeps
// mutable state, so every function is safe for concurrent use.
package merge
