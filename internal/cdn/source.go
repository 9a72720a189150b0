package cdn

import "context"

// Source is the narrow view of the CDN the engine needs.
type Source interface {
	// Exists reports whether url answers 200 to a HEAD request. Any
	// transport error or other status counts as absent.
	Exists(ctx context.Context, url string) bool
	// Fetch downloads the body at url. A non-200 status is an error.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
