package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_ValidApiKey() {
	client, err := NewPolygonClient("test-api-key", nil)
	suite.NoError(err)
	suite.NotNil(client)
	suite.NotNil(client.apiClient)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("", nil)
	suite.Error(err)
	suite.Nil(client)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *PolygonClientTestSuite) TestFetchHistorySuccess() {
	newYork, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	aggs := []models.Agg{
		{
			// Midnight Eastern is 05:00 UTC in winter.
			Timestamp: models.Millis(time.Date(2022, 1, 4, 0, 0, 0, 0, newYork)),
			Open:      476.3,
			High:      479.98,
			Low:       475.58,
			Close:     477.55,
			Volume:    73600000,
		},
		{
			Timestamp: models.Millis(time.Date(2022, 1, 3, 0, 0, 0, 0, newYork)),
			Open:      476.3,
			High:      477.85,
			Low:       473.85,
			Close:     477.71,
			Volume:    72600000,
		},
	}

	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: aggs}}
	client := NewPolygonClientWithAPI(mockAPI, nil)

	result := client.FetchHistory(context.Background(), HistoryRequest{
		Symbol: "SPY",
		Start:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	suite.True(result.IsSuccess())
	suite.Require().Equal(2, result.Dataset().Len())
	suite.Equal("2022-01-03", result.Dataset().Bars[0].Date.String())
	suite.Equal("2022-01-04", result.Dataset().Bars[1].Date.String())
	suite.InDelta(473.85, result.Dataset().Bars[0].Low, 0.0001)

	suite.Require().NotNil(mockAPI.lastParams)
	suite.Equal("SPY", mockAPI.lastParams.Ticker)
	suite.Equal(models.Day, mockAPI.lastParams.Timespan)
	suite.Equal(1, mockAPI.lastParams.Multiplier)
}

func (suite *PolygonClientTestSuite) TestFetchHistoryOptionTicker() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}
	client := NewPolygonClientWithAPI(mockAPI, nil)

	result := client.FetchHistory(context.Background(), HistoryRequest{Symbol: "SPY220218C00420000", Option: true})

	suite.True(result.IsSuccess())
	suite.True(result.Dataset().IsEmpty())
	suite.Equal("O:SPY220218C00420000", mockAPI.lastParams.Ticker)
}

func (suite *PolygonClientTestSuite) TestFetchHistoryIteratorError() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{err: errors.New("API rate limit exceeded")}}
	client := NewPolygonClientWithAPI(mockAPI, nil)

	result := client.FetchHistory(context.Background(), HistoryRequest{Symbol: "SPY"})

	suite.False(result.IsSuccess())
	suite.Contains(result.Reason(), "API rate limit exceeded")
}
