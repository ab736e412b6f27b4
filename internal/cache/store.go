// Package cache persists per-year datasets for underlyings and option chains.
//
// The store is two-tiered: an in-process memo in front of an on-disk artifact
// store laid out as <root>/<year>/<id>.<ext>. Artifacts are never refreshed once written.
package cache

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// Key addresses one cached dataset: an underlying symbol or chain identifier within a year.
type Key struct {
	Year int
	ID   string
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.Year, k.ID)
}

// Store is a key-value store of datasets.
type Store interface {
	// Get returns the dataset for key, or None when the store has nothing for it.
	Get(key Key) (optional.Option[types.Dataset], error)
	// Put stores the dataset for key, replacing anything already there.
	Put(key Key, dataset types.Dataset) error
}

// FetchFunc supplies the dataset for a key on a cache miss.
type FetchFunc func(ctx context.Context) types.FetchResult

// Loader resolves a key from the cache, falling back to fetch on a miss.
type Loader interface {
	LoadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (types.Dataset, error)
}
