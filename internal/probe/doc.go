// Package probe answers the two questions a run starts with: which trading
// day should the output reach, and which cumulative bundle is the newest one
// published.
//
// Both are backward walks from today's date in the market's fixed UTC
// offset. Existence probes for a batch of candidate dates run concurrently,
// bounded by the configured parallelism; candidates are then examined in
// strictly descending date order, so the answer never depends on which probe
// returned first.
package probe
