// Package fusion merges the always-present heuristic profile with the
// optional vision profile into one confidence-weighted result. Rules are
// per-attribute: precedence for values, weighted averaging for
// confidence scores.
package fusion
