package tilefetch

import (
	"context"
	"io/ioutil"
	"net/http"
	"runtime"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/semaphore"
)

const defaultUserAgent = "staticmap-app"

// HTTPTileFetcher fetches tiles over HTTP, running requests for a batch in
// parallel. It is stateless across batches and safe for concurrent use.
type HTTPTileFetcher struct {
	doer                 httpextra.Doer
	maxConcurrentFetches uint
	userAgent            string
}

// NewHTTPTileFetcher creates a fetcher using the given transport. A nil doer
// falls back to http.DefaultClient; a maxConcurrentFetches of 0 falls back
// to the number of CPUs.
func NewHTTPTileFetcher(doer httpextra.Doer, maxConcurrentFetches uint) *HTTPTileFetcher {
	if doer == nil {
		doer = http.DefaultClient
	}
	if maxConcurrentFetches == 0 {
		maxConcurrentFetches = uint(runtime.NumCPU())
	}

	return &HTTPTileFetcher{doer, maxConcurrentFetches, defaultUserAgent}
}

func (f *HTTPTileFetcher) Fetch(ctx context.Context, urls []string) []TileResult {
	results := make([]TileResult, len(urls))

	sema := semaphore.NewSemaphore(f.maxConcurrentFetches)
	for i, url := range urls {
		sema.Add()
		go func(i int, url string) {
			defer sema.Done()

			results[i] = f.fetchOne(ctx, url)
		}(i, url)
	}
	sema.Wait()

	return results
}

func (f *HTTPTileFetcher) fetchOne(ctx context.Context, url string) TileResult {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TileResult{URL: url, Err: errorsx.Wrap(err, "url", url)}
	}
	request.Header.Set("User-Agent", f.userAgent)

	response, err := f.doer.Do(request)
	if err != nil {
		return TileResult{URL: url, Err: errorsx.Wrap(err, "url", url)}
	}
	defer response.Body.Close()

	err = httpextra.CheckResponseCode(http.StatusOK, response.StatusCode)
	if err != nil {
		return TileResult{URL: url, Err: errorsx.Wrap(err, "url", url)}
	}

	data, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return TileResult{URL: url, Err: errorsx.Wrap(err, "url", url)}
	}

	return TileResult{URL: url, Data: data}
}
