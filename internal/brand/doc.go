// Package brand defines the core types shared across the extraction
// pipeline: captured documents, color candidates, screenshot artifacts,
// provider attempt records, and the final brand profile.
package brand
