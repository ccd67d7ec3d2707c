package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// The quote service speaks the Yahoo Finance v8/v10 JSON shapes. It is
// unauthenticated and rate limited, so callers should pace batch use.
const defaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultPeriod is the price-change window used when none is given
const DefaultPeriod = "1mo"

const userAgent = "Mozilla/5.0 (compatible; holdings-explorer/1.0)"

// Client is an HTTP client for the quote service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new quote service client
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a new quote service client with a custom base URL (for testing)
func NewClientWithBaseURL(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Profile fetches sector, industry, fund category and quote type for ticker
func (c *Client) Profile(ctx context.Context, ticker string) (*Profile, error) {
	params := url.Values{}
	params.Set("modules", "assetProfile,quoteType,fundProfile")

	doc, err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}
	if _, err := jsonpath.Get("$.quoteSummary.result[0]", doc); err != nil {
		return nil, fmt.Errorf("no profile for %s: %s", ticker, serviceError(doc, "$.quoteSummary.error.description"))
	}

	return &Profile{
		Ticker:    ticker,
		Sector:    stringAt(doc, "$.quoteSummary.result[0].assetProfile.sector"),
		Industry:  stringAt(doc, "$.quoteSummary.result[0].assetProfile.industry"),
		Category:  stringAt(doc, "$.quoteSummary.result[0].fundProfile.categoryName"),
		QuoteType: stringAt(doc, "$.quoteSummary.result[0].quoteType.quoteType"),
	}, nil
}

// PriceChange returns the percentage move from the first to the last daily
// close in period (e.g. "1mo", "3mo", "1y"). It fails when fewer than two
// closes are available.
func (c *Client) PriceChange(ctx context.Context, ticker, period string) (float64, error) {
	if period == "" {
		period = DefaultPeriod
	}
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", "1d")

	doc, err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params)
	if err != nil {
		return 0, err
	}

	path := "$.chart.result[0].indicators.quote[0].close"
	raw, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0, fmt.Errorf("no price history for %s: %s", ticker, serviceError(doc, "$.chart.error.description"))
	}
	list, ok := raw.([]any)
	if !ok {
		return 0, fmt.Errorf("error parsing %q for %s: not a list", path, ticker)
	}

	var closes []decimal.Decimal
	for _, v := range list {
		// the service pads non-trading slots with null
		f, ok := v.(float64)
		if !ok {
			continue
		}
		closes = append(closes, decimal.NewFromFloat(f))
	}
	if len(closes) < 2 {
		return 0, fmt.Errorf("not enough price history for %s over %s", ticker, period)
	}

	first, last := closes[0], closes[len(closes)-1]
	if first.IsZero() {
		return 0, fmt.Errorf("first close for %s is zero", ticker)
	}
	change := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
	return change.InexactFloat64(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values) (any, error) {
	resp, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return doc, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return resp, nil
}

// stringAt returns the string found at path, or "" when the path is absent
// or holds something else
func stringAt(doc any, path string) string {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return ""
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func serviceError(doc any, path string) string {
	if msg := stringAt(doc, path); msg != "" {
		return msg
	}
	return "empty result"
}
