// Package screenshot obtains a validated visual capture of a page by
// trying an ordered list of rendering providers with bounded retry and
// exponential backoff. Exhausting the whole chain is not an error; the
// pipeline continues heuristic-only.
package screenshot
