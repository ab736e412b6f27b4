package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderTradier ProviderType = "tradier"
	ProviderPolygon ProviderType = "polygon"
)

// OnDownloadProgress reports progress of a bulk download.
type OnDownloadProgress = func(current float64, total float64, message string)

// HistoryRequest asks for the daily bars of one symbol.
type HistoryRequest struct {
	// Symbol is an underlying ticker or an option chain identifier.
	Symbol string
	// Option is set when Symbol is an option chain identifier.
	Option bool
	// Start and End bound the request (inclusive). Zero values leave the bound to the provider.
	Start time.Time
	End   time.Time
}

type Provider interface {
	// FetchHistory issues a single request for the daily bars of req.Symbol.
	// It never returns an error: any non-success response is reported as a Failure result
	// and callers treat it as "no data".
	// example:
	// FetchHistory(ctx, HistoryRequest{Symbol: "SPY", Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)})
	FetchHistory(ctx context.Context, req HistoryRequest) types.FetchResult
}

// Config carries what any provider may need.
type Config struct {
	// ApiToken is the bearer token (Tradier) or API key (Polygon).
	ApiToken string
	// BaseURL overrides the provider's API root. Empty uses the production endpoint.
	BaseURL string
	Logger  *logger.Logger
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	if config.Logger == nil {
		config.Logger = logger.NewNopLogger()
	}

	switch providerType {
	case ProviderTradier, "":
		client, err := NewTradierClient(config.ApiToken, config.BaseURL, config.Logger)
		if err != nil {
			return nil, err
		}

		return client, nil
	case ProviderPolygon:
		client, err := NewPolygonClient(config.ApiToken, config.Logger)
		if err != nil {
			return nil, err
		}

		return client, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
