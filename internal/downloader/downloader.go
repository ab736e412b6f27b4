// Package downloader pre-warms the cache with the option chains a backtest of one underlying
// over one calendar year will touch.
package downloader

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-optchain/internal/cache"
	"github.com/rxtech-lab/argo-optchain/internal/chain"
	"github.com/rxtech-lab/argo-optchain/internal/expiration"
	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/ranges"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
	"github.com/rxtech-lab/argo-optchain/pkg/marketdata/provider"
)

// MonthPlan is the work scheduled for one month of the year.
type MonthPlan struct {
	Month      time.Month
	Range      types.MonthlyRange
	Expiration time.Time
	// Strikes is ascending. Every strike is fetched as a call and a put.
	Strikes []int
}

// ChainCount returns the number of chains the month covers.
func (p MonthPlan) ChainCount() int {
	return len(p.Strikes) * len(types.OptionTypes)
}

// Summary counts what a Download touched.
type Summary struct {
	Chains int
	// Empty is the number of chains that ended up without bars.
	Empty int
	Rows  int
}

// Downloader resolves underlyings and option chains through a cache loader backed by a provider.
type Downloader struct {
	provider   provider.Provider
	loader     cache.Loader
	logger     *logger.Logger
	onProgress provider.OnDownloadProgress
}

// New creates a Downloader. onProgress may be nil.
func New(p provider.Provider, loader cache.Loader, log *logger.Logger, onProgress provider.OnDownloadProgress) *Downloader {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Downloader{
		provider:   p,
		loader:     loader,
		logger:     log,
		onProgress: onProgress,
	}
}

// History returns the daily bars of symbol over year, fetching and caching them on a miss.
func (d *Downloader) History(ctx context.Context, symbol string, year int) (types.Dataset, error) {
	if symbol == "" {
		return types.Dataset{}, errors.New(errors.ErrCodeMissingParameter, "symbol is required")
	}

	req := provider.HistoryRequest{
		Symbol: symbol,
		Start:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	return d.loader.LoadOrFetch(ctx, cache.Key{Year: year, ID: symbol}, d.fetch(req))
}

// Option returns the daily bars of one option chain over the year before its expiration.
// The chain is cached under the expiration's year.
func (d *Downloader) Option(ctx context.Context, symbol string, expiry time.Time, strike int, optionType types.OptionType) (types.Dataset, error) {
	id, err := chain.Build(types.ChainKey{Symbol: symbol, Expiration: expiry, Strike: strike, Type: optionType})
	if err != nil {
		return types.Dataset{}, err
	}

	return d.option(ctx, id, expiry)
}

func (d *Downloader) option(ctx context.Context, id string, expiry time.Time) (types.Dataset, error) {
	req := provider.HistoryRequest{
		Symbol: id,
		Option: true,
		Start:  expiry.AddDate(-1, 0, 0),
		End:    expiry,
	}

	return d.loader.LoadOrFetch(ctx, cache.Key{Year: expiry.Year(), ID: id}, d.fetch(req))
}

func (d *Downloader) fetch(req provider.HistoryRequest) cache.FetchFunc {
	return func(ctx context.Context) types.FetchResult {
		return d.provider.FetchHistory(ctx, req)
	}
}

// Plan loads the underlying for year and lays out, per month, the expiration and strikes a
// Download would fetch. No chain is fetched.
func (d *Downloader) Plan(ctx context.Context, symbol string, year int, margin float64) ([]MonthPlan, error) {
	if err := validate(symbol, year, margin); err != nil {
		return nil, err
	}

	series, err := d.History(ctx, symbol, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", symbol, year, err)
	}

	monthly, err := ranges.DeriveMonthlyRanges(series, symbol, year)
	if err != nil {
		return nil, err
	}

	plans := make([]MonthPlan, 0, len(monthly))

	for _, r := range monthly {
		if r.Extrapolated {
			d.logger.Info("Month has no bars, using previous month's range",
				zap.String("symbol", symbol),
				zap.Stringer("month", r.Month),
			)
		}

		plans = append(plans, MonthPlan{
			Month:      r.Month,
			Range:      r,
			Expiration: expiration.MonthlyExpiration(year, r.Month),
			Strikes:    ranges.StrikeUniverse(r, margin),
		})
	}

	return plans, nil
}

// Download caches the underlying for year and then, month by month in ascending order, every
// call and put chain at the month's expiration for each strike in the month's universe.
// A chain the remote cannot serve is left empty and does not stop the run. Cache I/O errors,
// an empty January and ctx cancellation do.
func (d *Downloader) Download(ctx context.Context, symbol string, year int, margin float64) (Summary, error) {
	plans, err := d.Plan(ctx, symbol, year, margin)
	if err != nil {
		return Summary{}, err
	}

	total := 0
	for _, plan := range plans {
		total += plan.ChainCount()
	}

	var summary Summary

	for _, plan := range plans {
		d.logger.Info("Downloading option chains",
			zap.String("symbol", symbol),
			zap.Stringer("month", plan.Month),
			zap.String("expiration", plan.Expiration.Format(types.DateLayout)),
			zap.Float64("low", plan.Range.Low),
			zap.Float64("high", plan.Range.High),
			zap.Int("chains", plan.ChainCount()),
		)

		for _, strike := range plan.Strikes {
			for _, optionType := range types.OptionTypes {
				if err := ctx.Err(); err != nil {
					return summary, err
				}

				id, err := chain.Build(types.ChainKey{
					Symbol:     symbol,
					Expiration: plan.Expiration,
					Strike:     strike,
					Type:       optionType,
				})
				if err != nil {
					return summary, fmt.Errorf("failed to build chain for %s %s strike %d: %w", symbol, plan.Month, strike, err)
				}

				dataset, err := d.option(ctx, id, plan.Expiration)
				if err != nil {
					return summary, fmt.Errorf("failed to load chain %s: %w", id, err)
				}

				summary.Chains++
				summary.Rows += dataset.Len()

				if dataset.IsEmpty() {
					summary.Empty++
				}

				if d.onProgress != nil {
					d.onProgress(float64(summary.Chains), float64(total), id)
				}
			}
		}
	}

	d.logger.Info("Download finished",
		zap.String("symbol", symbol),
		zap.Int("year", year),
		zap.Int("chains", summary.Chains),
		zap.Int("empty", summary.Empty),
		zap.Int("rows", summary.Rows),
	)

	return summary, nil
}

func validate(symbol string, year int, margin float64) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeMissingParameter, "symbol is required")
	}

	if err := chain.ValidateSymbol(symbol); err != nil {
		return err
	}

	if year < 1970 || year > 9999 {
		return errors.Newf(errors.ErrCodeInvalidYear, "year %d is out of range", year)
	}

	if margin < 0 || margin >= 1 {
		return errors.Newf(errors.ErrCodeInvalidMargin, "strike margin %v must be in [0, 1)", margin)
	}

	return nil
}
