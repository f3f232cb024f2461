// Package tool holds the registry of callable units exposed to the model.
//
// Invariants:
// - Every registered tool has a name, a description, and a handler.
// - Arguments are validated against a generated JSON Schema before dispatch.
// - Handlers return a string; execution is bounded by a timeout.
package tool
