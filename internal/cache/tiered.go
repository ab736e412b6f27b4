package cache

import (
	"context"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// Tiered composes a memo store in front of a persistent store.
// Reads go memo -> persistent (promoting hits into the memo); writes go to both.
type Tiered struct {
	memo       Store
	persistent Store
	logger     *logger.Logger
}

// NewTiered creates a read-through/write-through store.
func NewTiered(memo Store, persistent Store, log *logger.Logger) *Tiered {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Tiered{
		memo:       memo,
		persistent: persistent,
		logger:     log,
	}
}

// Get implements Store.
func (t *Tiered) Get(key Key) (optional.Option[types.Dataset], error) {
	memoized, err := t.memo.Get(key)
	if err != nil {
		return optional.None[types.Dataset](), err
	}

	if memoized.IsSome() {
		return memoized, nil
	}

	persisted, err := t.persistent.Get(key)
	if err != nil {
		return optional.None[types.Dataset](), err
	}

	if persisted.IsNone() {
		return persisted, nil
	}

	dataset := persisted.Unwrap().Normalize()
	if err := t.memo.Put(key, dataset); err != nil {
		return optional.None[types.Dataset](), err
	}

	return optional.Some(dataset), nil
}

// Put implements Store.
func (t *Tiered) Put(key Key, dataset types.Dataset) error {
	dataset = dataset.Normalize()

	if err := t.persistent.Put(key, dataset); err != nil {
		return err
	}

	return t.memo.Put(key, dataset)
}

// LoadOrFetch implements Loader.
//
// A memo hit returns without I/O. A persisted artifact is loaded and memoized. Otherwise fetch
// is called: a success is normalized, persisted and memoized; a failure is memoized as an empty
// dataset for the lifetime of t but not persisted, so a later run fetches it again.
// fetch is therefore called at most once per key. Store errors are returned unchanged.
func (t *Tiered) LoadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (types.Dataset, error) {
	cached, err := t.Get(key)
	if err != nil {
		return types.Dataset{}, err
	}

	if cached.IsSome() {
		return cached.Unwrap(), nil
	}

	result := fetch(ctx)
	if !result.IsSuccess() {
		t.logger.Warn("No data fetched",
			zap.Stringer("key", key),
			zap.String("reason", result.Reason()),
		)

		empty := types.NewDataset(nil)
		if err := t.memo.Put(key, empty); err != nil {
			return types.Dataset{}, err
		}

		return empty, nil
	}

	dataset := result.Dataset().Normalize()
	if err := t.Put(key, dataset); err != nil {
		return types.Dataset{}, err
	}

	t.logger.Debug("Fetched dataset", zap.Stringer("key", key), zap.Int("rows", dataset.Len()))

	return dataset, nil
}
