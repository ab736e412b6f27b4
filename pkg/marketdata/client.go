package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-optchain/internal/cache"
	"github.com/rxtech-lab/argo-optchain/internal/downloader"
	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/marketdata/provider"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderTradier = provider.ProviderTradier
	ProviderPolygon = provider.ProviderPolygon
)

// Format defines how cached datasets are stored on disk.
type Format = cache.Format

const (
	FormatCSV     = cache.FormatCSV
	FormatParquet = cache.FormatParquet
)

// DefaultDumpPath is the cache root used when none is configured.
const DefaultDumpPath = "Opt_Chain"

// DefaultStrikeMargin widens the monthly range by 10% on each side.
const DefaultStrikeMargin = 0.1

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType ProviderType `validate:"required,oneof=tradier polygon"`
	Format       Format       `validate:"required,oneof=csv parquet"`
	DumpPath     string       `validate:"required"`
	ApiToken     string       `validate:"required"`
	BaseURL      string       `validate:"omitempty,url"`
	Logger       *logger.Logger
}

// DownloadParams holds the parameters for a chain download.
type DownloadParams struct {
	Symbol       string  `validate:"required"`
	Year         int     `validate:"required,min=1970,max=9999"`
	StrikeMargin float64 `validate:"gte=0,lt=1"`
}

// MonthPlan is the work scheduled for one month of a download.
type MonthPlan = downloader.MonthPlan

// Summary counts what a download touched.
type Summary = downloader.Summary

// Client downloads underlyings and option chains into the dump directory.
type Client struct {
	downloader *downloader.Downloader
	store      *cache.DiskStore
	config     ClientConfig
	validate   *validator.Validate
}

// NewClient creates a new market data client with the given configuration.
// It opens (or creates) the dump directory and fails if it was written with another format.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	if config.Logger == nil {
		config.Logger = logger.NewNopLogger()
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		ApiToken: config.ApiToken,
		BaseURL:  config.BaseURL,
		Logger:   config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", config.ProviderType, err)
	}

	return newClient(config, validate, marketProvider, onProgress)
}

func newClient(config ClientConfig, validate *validator.Validate, marketProvider provider.Provider, onProgress provider.OnDownloadProgress) (*Client, error) {
	codec, err := cache.NewCodec(config.Format)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewDiskStore(config.DumpPath, codec, config.Logger)
	if err != nil {
		return nil, err
	}

	loader := cache.NewTiered(cache.NewMemoryStore(), store, config.Logger)

	return &Client{
		downloader: downloader.New(marketProvider, loader, config.Logger, onProgress),
		store:      store,
		config:     config,
		validate:   validate,
	}, nil
}

// DumpPath returns the cache root.
func (c *Client) DumpPath() string {
	return c.store.Root()
}

// Download caches the underlying and every option chain its monthly ranges call for.
// The context can be used to cancel the download between chains.
func (c *Client) Download(ctx context.Context, params DownloadParams) (Summary, error) {
	if err := c.validate.Struct(params); err != nil {
		return Summary{}, fmt.Errorf("invalid download parameters: %w", err)
	}

	summary, err := c.downloader.Download(ctx, params.Symbol, params.Year, params.StrikeMargin)
	if err != nil {
		return summary, fmt.Errorf("download failed: %w", err)
	}

	return summary, nil
}

// Plan returns the monthly ranges, expirations and strikes a Download would use.
func (c *Client) Plan(ctx context.Context, params DownloadParams) ([]MonthPlan, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid download parameters: %w", err)
	}

	return c.downloader.Plan(ctx, params.Symbol, params.Year, params.StrikeMargin)
}

// History returns the cached daily bars of symbol for year, fetching them on a miss.
func (c *Client) History(ctx context.Context, symbol string, year int) (types.Dataset, error) {
	return c.downloader.History(ctx, symbol, year)
}

// Option returns the cached daily bars of one option chain, fetching them on a miss.
func (c *Client) Option(ctx context.Context, symbol string, expiration time.Time, strike int, optionType types.OptionType) (types.Dataset, error) {
	return c.downloader.Option(ctx, symbol, expiration, strike, optionType)
}
