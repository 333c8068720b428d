package staticmap

import (
	"fmt"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

// ConstructionError reports invalid or missing options detected when a
// feature or map is created, before any fetching or drawing happens.
type ConstructionError struct {
	// Kind is the object being constructed, e.g. "line", "circle", "map".
	Kind string
	// Problems lists every invalid field, not just the first.
	Problems []string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: invalid options: %s", e.Kind, strings.Join(e.Problems, "; "))
}

func newConstructionError(kind string, problems []string) errorsx.Error {
	return errorsx.Wrap(&ConstructionError{Kind: kind, Problems: problems})
}

// TileError means a tile could not be fetched or decoded. It carries the
// tile URL so a failing provider can be identified without verbose logging.
type TileError struct {
	URL   string
	Cause error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("failed to get tile with url %q. Error: %q", e.URL, e.Cause)
}

// CodecError means encoding or decoding the final image failed.
type CodecError struct {
	Op    string // "encode" or "decode"
	Cause error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("png %s failed. Error: %q", e.Op, e.Cause)
}
