package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// PolygonAggsIterator is the subset of the Polygon aggregates iterator used here.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the Polygon REST client used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

// PolygonClient fetches daily aggregates from Polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
	logger    *logger.Logger
	location  *time.Location
}

func NewPolygonClient(apiKey string, log *logger.Logger) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIAdapter{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonClientWithAPI creates a client on top of an existing API implementation.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, log *logger.Logger) *PolygonClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	// Daily aggregates are stamped at midnight US Eastern.
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		location = time.UTC
	}

	return &PolygonClient{
		apiClient: apiClient,
		logger:    log,
		location:  location,
	}
}

// FetchHistory implements Provider.
func (c *PolygonClient) FetchHistory(ctx context.Context, req HistoryRequest) types.FetchResult {
	end := req.End
	if end.IsZero() {
		end = time.Now()
	}

	start := req.Start
	if start.IsZero() {
		start = end.AddDate(-1, 0, 0)
	}

	ticker := req.Symbol
	if req.Option {
		ticker = "O:" + ticker
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	bars := []types.PriceBar{}

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.PriceBar{
			Date:   types.NewDate(time.Time(agg.Timestamp).In(c.location)),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		c.logger.Warn("Polygon request failed", zap.String("ticker", ticker), zap.Error(err))

		return types.Failure(fmt.Sprintf("error iterating polygon aggregates: %v", err))
	}

	return types.Success(types.NewDataset(bars))
}
