// Package checkpoint persists conversation state keyed by thread id.
//
// Invariants:
// - Get on an unknown thread returns an empty state, not an error.
// - Savers return defensive copies; callers never alias stored history.
// - Put records a new checkpoint; the latest one wins on Get.
package checkpoint
