// Package vision submits a validated screenshot to an ordered list of
// vision-capable inference providers and turns their loosely-typed JSON
// answers into sanitized brand-profile fragments. Any provider failure
// advances to the next provider; the stage as a whole can only degrade,
// never fail the pipeline.
package vision
