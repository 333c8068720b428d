// Package tilefetch retrieves raster map tiles. The default implementation
// fetches over HTTP with a bounded number of concurrent requests; the noop
// implementation serves a placeholder image for use without network access.
// Implementations may add caching or throttling, see DiskCacheFetcher.
package tilefetch

import (
	"context"

	"github.com/jamesrr39/goutil/errorsx"
)

// TileResult is the outcome of fetching one tile URL. Exactly one of Data
// and Err is set.
type TileResult struct {
	URL  string
	Data []byte
	Err  errorsx.Error
}

// TileFetcher fetches a batch of tile URLs and returns one TileResult per
// URL, in the same order as the input, regardless of the order the fetches
// complete in. The call blocks until the whole batch has been attempted.
type TileFetcher interface {
	Fetch(ctx context.Context, urls []string) []TileResult
}
