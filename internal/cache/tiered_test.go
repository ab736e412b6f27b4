package cache_test

import (
	"context"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/argo-optchain/internal/cache"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/mocks"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

type TieredTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	persistent *mocks.MockStore
	memo       *cache.MemoryStore
	tiered     *cache.Tiered
}

func TestTieredSuite(t *testing.T) {
	suite.Run(t, new(TieredTestSuite))
}

func (suite *TieredTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.persistent = mocks.NewMockStore(suite.ctrl)
	suite.memo = cache.NewMemoryStore()
	suite.tiered = cache.NewTiered(suite.memo, suite.persistent, nil)
}

func (suite *TieredTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func dataset(dates ...string) types.Dataset {
	bars := make([]types.PriceBar, 0, len(dates))

	for _, value := range dates {
		date, err := types.ParseDate(value)
		if err != nil {
			panic(err)
		}

		bars = append(bars, types.PriceBar{Date: date, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10})
	}

	return types.NewDataset(bars)
}

func countingFetch(calls *int, result types.FetchResult) cache.FetchFunc {
	return func(_ context.Context) types.FetchResult {
		*calls++
		return result
	}
}

func (suite *TieredTestSuite) TestFetchOnMissPersistsAndMemoizes() {
	key := cache.Key{Year: 2022, ID: "SPY220218C00420000"}
	fetched := dataset("2022-01-04", "2022-01-03")

	suite.persistent.EXPECT().Get(key).Return(optional.None[types.Dataset](), nil).Times(1)
	suite.persistent.EXPECT().Put(key, fetched.Normalize()).Return(nil).Times(1)

	calls := 0
	fetch := countingFetch(&calls, types.Success(fetched))

	first, err := suite.tiered.LoadOrFetch(context.Background(), key, fetch)
	suite.NoError(err)
	suite.Equal(2, first.Len())
	suite.Equal("2022-01-03", first.Bars[0].Date.String())

	second, err := suite.tiered.LoadOrFetch(context.Background(), key, fetch)
	suite.NoError(err)
	suite.Equal(first, second)
	suite.Equal(1, calls, "fetch is called once per key")
	suite.Equal(1, suite.memo.Len())
}

func (suite *TieredTestSuite) TestPersistedHitSkipsFetch() {
	key := cache.Key{Year: 2022, ID: "SPY"}

	suite.persistent.EXPECT().Get(key).Return(optional.Some(dataset("2022-01-03")), nil).Times(1)

	calls := 0
	got, err := suite.tiered.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(dataset())))
	suite.NoError(err)
	suite.Equal(1, got.Len())
	suite.Equal(0, calls)

	// Promoted into the memo: no second persistent read.
	got, err = suite.tiered.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(dataset())))
	suite.NoError(err)
	suite.Equal(1, got.Len())
}

func (suite *TieredTestSuite) TestEmptySuccessIsPersisted() {
	key := cache.Key{Year: 2022, ID: "SPY220218P00378000"}

	suite.persistent.EXPECT().Get(key).Return(optional.None[types.Dataset](), nil)
	suite.persistent.EXPECT().Put(key, types.NewDataset(nil)).Return(nil).Times(1)

	calls := 0
	got, err := suite.tiered.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(types.NewDataset(nil))))
	suite.NoError(err)
	suite.True(got.IsEmpty())
	suite.Equal(1, calls)
}

func (suite *TieredTestSuite) TestFailureIsMemoizedButNotPersisted() {
	key := cache.Key{Year: 2022, ID: "SPY220218C00500000"}

	suite.persistent.EXPECT().Get(key).Return(optional.None[types.Dataset](), nil).Times(1)
	suite.persistent.EXPECT().Put(gomock.Any(), gomock.Any()).Times(0)

	calls := 0
	fetch := countingFetch(&calls, types.Failure("error code: 400"))

	got, err := suite.tiered.LoadOrFetch(context.Background(), key, fetch)
	suite.NoError(err)
	suite.True(got.IsEmpty())

	got, err = suite.tiered.LoadOrFetch(context.Background(), key, fetch)
	suite.NoError(err)
	suite.True(got.IsEmpty())
	suite.Equal(1, calls)
}

func (suite *TieredTestSuite) TestStoreErrorsPropagate() {
	key := cache.Key{Year: 2022, ID: "SPY"}
	storeErr := errors.New(errors.ErrCodeCacheReadFailed, "permission denied")

	suite.persistent.EXPECT().Get(key).Return(optional.None[types.Dataset](), storeErr)

	calls := 0
	_, err := suite.tiered.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(dataset())))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCacheReadFailed))
	suite.Equal(0, calls)
}

func (suite *TieredTestSuite) TestWriteErrorPropagates() {
	key := cache.Key{Year: 2022, ID: "SPY"}

	suite.persistent.EXPECT().Get(key).Return(optional.None[types.Dataset](), nil)
	suite.persistent.EXPECT().Put(key, gomock.Any()).Return(errors.New(errors.ErrCodeCacheWriteFailed, "read-only"))

	calls := 0
	_, err := suite.tiered.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(dataset("2022-01-03"))))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCacheWriteFailed))
	suite.Equal(0, suite.memo.Len())
}

func (suite *TieredTestSuite) TestAcrossRunsWithDiskStore() {
	root := suite.T().TempDir()
	key := cache.Key{Year: 2022, ID: "SPY"}

	disk, err := cache.NewDiskStore(root, cache.CSVCodec{}, nil)
	suite.Require().NoError(err)

	calls := 0
	first := cache.NewTiered(cache.NewMemoryStore(), disk, nil)
	_, err = first.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Success(dataset("2022-01-03"))))
	suite.Require().NoError(err)

	reopened, err := cache.NewDiskStore(root, cache.CSVCodec{}, nil)
	suite.Require().NoError(err)

	second := cache.NewTiered(cache.NewMemoryStore(), reopened, nil)
	got, err := second.LoadOrFetch(context.Background(), key, countingFetch(&calls, types.Failure("offline")))
	suite.NoError(err)
	suite.Equal(1, got.Len())
	suite.Equal(1, calls, "second run reads the persisted artifact")
}
