package tilefetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"path/filepath"

	"github.com/jamesrr39/goutil/gofs"
)

// DiskCacheFetcher wraps another TileFetcher with a cache of tile bytes on
// a filesystem, keyed by a hash of the URL. Cache writes are best-effort: a
// failed write is logged and the fetched tile is still returned.
type DiskCacheFetcher struct {
	fs    gofs.Fs
	dir   string
	inner TileFetcher
}

func NewDiskCacheFetcher(fs gofs.Fs, dir string, inner TileFetcher) *DiskCacheFetcher {
	return &DiskCacheFetcher{fs, dir, inner}
}

func (f *DiskCacheFetcher) Fetch(ctx context.Context, urls []string) []TileResult {
	results := make([]TileResult, len(urls))

	var missIndexes []int
	var missURLs []string
	for i, url := range urls {
		data, err := f.fs.ReadFile(f.cachePath(url))
		if err == nil {
			results[i] = TileResult{URL: url, Data: data}
			continue
		}

		missIndexes = append(missIndexes, i)
		missURLs = append(missURLs, url)
	}

	if len(missURLs) == 0 {
		return results
	}

	fetched := f.inner.Fetch(ctx, missURLs)
	for j, index := range missIndexes {
		results[index] = fetched[j]

		if fetched[j].Err != nil {
			continue
		}

		err := f.writeCacheEntry(fetched[j].URL, fetched[j].Data)
		if err != nil {
			log.Printf("tile cache: couldn't write entry for %q. Error: %q\n", fetched[j].URL, err)
		}
	}

	return results
}

func (f *DiskCacheFetcher) writeCacheEntry(url string, data []byte) error {
	err := f.fs.MkdirAll(f.dir, 0755)
	if err != nil {
		return err
	}

	return f.fs.WriteFile(f.cachePath(url), data, 0644)
}

func (f *DiskCacheFetcher) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))

	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".png")
}
