// Package palette filters, ranks, and harmonizes color candidates into a
// primary/secondary/accent triad, using HSL transforms for harmonization.
package palette
