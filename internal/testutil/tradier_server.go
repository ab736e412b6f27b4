// Package testutil provides a mock Tradier markets API for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// HistoryRequest is one request received by the mock server.
type HistoryRequest struct {
	Symbol        string
	Start         string
	End           string
	Interval      string
	Authorization string
	Accept        string
}

// MockTradierServer serves GET /v1/markets/history from in-memory bars.
// Unknown symbols answer {"history": null}.
type MockTradierServer struct {
	mu sync.RWMutex

	server   *httptest.Server
	token    string
	bars     map[string][]types.PriceBar
	statuses map[string]int
	raw      map[string]string
	requests []HistoryRequest
}

// NewMockTradierServer starts a server that accepts only the given bearer token.
func NewMockTradierServer(token string) *MockTradierServer {
	s := &MockTradierServer{
		token:    token,
		bars:     make(map[string][]types.PriceBar),
		statuses: make(map[string]int),
		raw:      make(map[string]string),
	}

	router := mux.NewRouter()
	router.HandleFunc("/v1/markets/history", s.handleHistory).Methods("GET")

	s.server = httptest.NewServer(router)

	return s
}

// BaseURL returns the base URL for the server.
func (s *MockTradierServer) BaseURL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *MockTradierServer) Close() {
	s.server.Close()
}

// SetHistory sets the bars returned for symbol.
func (s *MockTradierServer) SetHistory(symbol string, bars []types.PriceBar) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bars[symbol] = bars
}

// SetStatus makes requests for symbol fail with status.
func (s *MockTradierServer) SetStatus(symbol string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[symbol] = status
}

// SetRawResponse makes requests for symbol answer body verbatim with status 200.
func (s *MockTradierServer) SetRawResponse(symbol string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw[symbol] = body
}

// Requests returns the requests received so far, in order.
func (s *MockTradierServer) Requests() []HistoryRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]HistoryRequest, len(s.requests))
	copy(requests, s.requests)

	return requests
}

// RequestCount returns how many requests were received for symbol.
func (s *MockTradierServer) RequestCount(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0

	for _, req := range s.requests {
		if req.Symbol == symbol {
			count++
		}
	}

	return count
}

func (s *MockTradierServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := HistoryRequest{
		Symbol:        query.Get("symbol"),
		Start:         query.Get("start"),
		End:           query.Get("end"),
		Interval:      query.Get("interval"),
		Authorization: r.Header.Get("Authorization"),
		Accept:        r.Header.Get("Accept"),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, failing := s.statuses[req.Symbol]
	raw, hasRaw := s.raw[req.Symbol]
	bars := s.bars[req.Symbol]
	s.mu.Unlock()

	if req.Authorization != "Bearer "+s.token {
		http.Error(w, "Invalid Access Token", http.StatusUnauthorized)

		return
	}

	if failing {
		http.Error(w, http.StatusText(status), status)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if hasRaw {
		_, _ = w.Write([]byte(raw))

		return
	}

	if len(bars) == 0 {
		_, _ = w.Write([]byte(`{"history":null}`))

		return
	}

	days := make([]map[string]any, 0, len(bars))

	for _, bar := range bars {
		date := bar.Date.String()
		if (req.Start != "" && strings.Compare(date, req.Start) < 0) || (req.End != "" && strings.Compare(date, req.End) > 0) {
			continue
		}

		days = append(days, map[string]any{
			"date":   date,
			"open":   bar.Open,
			"high":   bar.High,
			"low":    bar.Low,
			"close":  bar.Close,
			"volume": int64(bar.Volume),
		})
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"history": map[string]any{"day": days},
	})
}
