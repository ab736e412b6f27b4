package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
)

const (
	// TradierBaseURL is the production API root.
	TradierBaseURL = "https://api.tradier.com"
	// TradierSandboxURL is the paper-trading API root.
	TradierSandboxURL = "https://sandbox.tradier.com"

	tradierHistoryPath = "/v1/markets/history"
)

// TradierClient fetches daily bars from the Tradier markets history endpoint.
type TradierClient struct {
	client *resty.Client
	logger *logger.Logger
}

// tradierHistoryResponse models GET /v1/markets/history. Tradier returns "history": null
// when there is nothing, and "day" as an object instead of an array when there is one bar.
type tradierHistoryResponse struct {
	History json.RawMessage `json:"history"`
}

type tradierHistory struct {
	Day json.RawMessage `json:"day"`
}

type tradierDay struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func NewTradierClient(apiToken string, baseURL string, log *logger.Logger) (*TradierClient, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("apiToken is required")
	}

	if baseURL == "" {
		baseURL = TradierBaseURL
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetAuthToken(apiToken).
		SetTimeout(60 * time.Second)

	return &TradierClient{
		client: client,
		logger: log,
	}, nil
}

// FetchHistory implements Provider.
func (c *TradierClient) FetchHistory(ctx context.Context, req HistoryRequest) types.FetchResult {
	params := map[string]string{
		"symbol":   req.Symbol,
		"interval": "daily",
	}

	if !req.Start.IsZero() {
		params["start"] = req.Start.Format(types.DateLayout)
	}

	if !req.End.IsZero() {
		params["end"] = req.End.Format(types.DateLayout)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(tradierHistoryPath)
	if err != nil {
		c.logger.Warn("Tradier request failed", zap.String("symbol", req.Symbol), zap.Error(err))

		return types.Failure(fmt.Sprintf("request failed: %v", err))
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn("Tradier returned an error status",
			zap.String("symbol", req.Symbol),
			zap.Int("status", resp.StatusCode()),
		)

		return types.Failure(fmt.Sprintf("error code: %d", resp.StatusCode()))
	}

	bars, err := decodeTradierHistory(resp.Body())
	if err != nil {
		c.logger.Warn("Tradier response could not be decoded", zap.String("symbol", req.Symbol), zap.Error(err))

		return types.Failure(err.Error())
	}

	return types.Success(types.NewDataset(bars))
}

func decodeTradierHistory(body []byte) ([]types.PriceBar, error) {
	var response tradierHistoryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	if isJSONNull(response.History) {
		return []types.PriceBar{}, nil
	}

	var history tradierHistory
	if err := json.Unmarshal(response.History, &history); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	if isJSONNull(history.Day) {
		return []types.PriceBar{}, nil
	}

	var days []tradierDay

	if trimmed := bytes.TrimSpace(history.Day); trimmed[0] == '{' {
		var day tradierDay
		if err := json.Unmarshal(trimmed, &day); err != nil {
			return nil, fmt.Errorf("failed to decode day: %w", err)
		}

		days = []tradierDay{day}
	} else if err := json.Unmarshal(trimmed, &days); err != nil {
		return nil, fmt.Errorf("failed to decode days: %w", err)
	}

	bars := make([]types.PriceBar, 0, len(days))

	for _, day := range days {
		date, err := types.ParseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid bar date %q: %w", day.Date, err)
		}

		bars = append(bars, types.PriceBar{
			Date:   date,
			Open:   day.Open,
			High:   day.High,
			Low:    day.Low,
			Close:  day.Close,
			Volume: day.Volume,
		})
	}

	return bars, nil
}

// isJSONNull reports whether raw is absent, null, or the string "null".
func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == `"null"`
}
