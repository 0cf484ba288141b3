package yfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
)

const (
	quotePath      = "/api/v1/quote"
	quoteBatchPath = "/api/v1/quote/batch"
)

// Client talks to the yfinance-based market data service over REST.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient is used by tests to inject a custom transport.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type quoteResponse struct {
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Time     string `json:"time"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type quoteBatchRequest struct {
	Symbols []string `json:"symbols"`
}

type quoteBatchResponse struct {
	Results []quoteResponse   `json:"results"`
	Errors  []quoteBatchError `json:"errors"`
}

type quoteBatchError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// GetQuote retrieves the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*marketdata.QuoteResult, error) {
	reqURL := fmt.Sprintf("%s%s/%s", c.baseURL, quotePath, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer closeBody(resp, reqURL)

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no quote found for symbol: %s", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var quoteResp quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if quoteResp.Price == "" {
		return nil, fmt.Errorf("quote request returned no price data for symbol: %s", symbol)
	}

	return toQuote(quoteResp)
}

// GetQuoteBatch retrieves quotes for many symbols in one request. A transport level
// failure is reported against every requested symbol.
func (c *Client) GetQuoteBatch(ctx context.Context, symbols []string) []marketdata.QuoteBatchResult {
	results := make([]marketdata.QuoteBatchResult, 0, len(symbols))

	if len(symbols) == 0 {
		return results
	}

	failAll := func(err error) []marketdata.QuoteBatchResult {
		for _, symbol := range symbols {
			results = append(results, marketdata.QuoteBatchResult{Symbol: symbol, Error: err})
		}
		return results
	}

	jsonBody, err := json.Marshal(quoteBatchRequest{Symbols: symbols})
	if err != nil {
		return failAll(fmt.Errorf("failed to marshal request: %w", err))
	}

	reqURL := c.baseURL + quoteBatchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return failAll(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failAll(fmt.Errorf("failed to execute request: %w", err))
	}
	defer closeBody(resp, reqURL)

	if resp.StatusCode != http.StatusOK {
		return failAll(apiError(resp))
	}

	var batchResp quoteBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return failAll(fmt.Errorf("failed to decode response: %w", err))
	}

	for _, qr := range batchResp.Results {
		quote, err := toQuote(qr)
		results = append(results, marketdata.QuoteBatchResult{Symbol: qr.Symbol, Quote: quote, Error: err})
	}
	for _, e := range batchResp.Errors {
		results = append(results, marketdata.QuoteBatchResult{
			Symbol: e.Symbol,
			Error:  fmt.Errorf("%s", e.Error),
		})
	}

	return results
}

func toQuote(qr quoteResponse) (*marketdata.QuoteResult, error) {
	price, err := domain.NewDecimalFromString(qr.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	return &marketdata.QuoteResult{
		Symbol:   qr.Symbol,
		Price:    price,
		Currency: qr.Currency,
		Time:     qr.Time,
	}, nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
		return fmt.Errorf("API error: %s", errResp.Detail)
	}
	return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
}

func closeBody(resp *http.Response, reqURL string) {
	if closeErr := resp.Body.Close(); closeErr != nil {
		slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
	}
}

var _ marketdata.BatchQuoteProvider = (*Client)(nil)
