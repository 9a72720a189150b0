// Package cdn talks to the market-data CDN: it builds archive URLs, answers
// existence probes and downloads archive bodies.
//
// The rest of the module depends only on the Source interface, so probes and
// the patcher can be driven by a scripted fake in tests. Client is the HTTP
// implementation: every request passes a shared rate limiter, HEAD probes are
// bounded by a short timeout, and downloads are retried with exponential
// backoff on transport errors and 5xx responses.
package cdn
