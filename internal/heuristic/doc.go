// Package heuristic extracts brand signals from captured markup and
// stylesheet text. Everything here is pure and network-free: goquery for
// DOM queries, regular expressions for CSS text.
package heuristic
