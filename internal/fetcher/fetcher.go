package fetcher

import (
	"context"

	"github.com/shelfminer/shelfminer/internal/types"
)

// Fetcher is the interface for page retrieval. One call is one
// attempt: retries and rate-limit handling are the caller's concern,
// and callers in this codebase deliberately do neither.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	Fetch(ctx context.Context, rawURL string) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
