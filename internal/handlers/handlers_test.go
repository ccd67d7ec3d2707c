package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epeers/holdings/internal/cache"
	"github.com/epeers/holdings/internal/dataset"
	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/quotes"
	"github.com/epeers/holdings/internal/repository"
	"github.com/epeers/holdings/internal/services"
)

func testTables() *dataset.Tables {
	return &dataset.Tables{
		Positions: []models.Position{
			{AccessionNumber: "A1", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", Value: 100, Shares: 10, CUSIP: "037833100"},
			{AccessionNumber: "A1", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", Value: 50, Shares: 5, CUSIP: "037833100"},
			{AccessionNumber: "A2", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", Value: 30, Shares: 3, CUSIP: "037833100"},
			{AccessionNumber: "A2", NameOfIssuer: "ISHARES TR", TitleOfClass: "CORE MSCI EMKT", Value: 70, Shares: 7, CUSIP: "46434G103"},
		},
		Coverpages: []models.Coverpage{
			{AccessionNumber: "A1", FilingManagerName: "Fund X"},
			{AccessionNumber: "A2", FilingManagerName: "Fund Y"},
		},
		Summaries: []models.Summary{
			{AccessionNumber: "A1", TableValueTotal: 150, TableEntryTotal: 2, HasDeclaredTotal: true},
		},
		Fingerprint: "00000000000000ab",
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v10/finance/quoteSummary/AAPL":
			w.Write([]byte(`{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology"},"quoteType":{"quoteType":"EQUITY"}}]}}`))
		case "/v8/finance/chart/AAPL":
			w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[100.0,110.0]}]}}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(mockServer.Close)

	store := repository.NewCSVStore(filepath.Join(t.TempDir(), "company_ticker.csv"))
	tc, err := cache.NewTickerCache(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	engine := services.NewSearchEngine(testTables(), 0)
	enrichSvc := services.NewEnrichmentService(tc, quotes.NewClientWithBaseURL(mockServer.URL), nil, time.Second, 0)

	router := gin.New()
	RegisterRoutes(router, NewHoldingsHandler(engine), NewMarketHandler(engine), NewEnrichmentHandler(enrichSvc))
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to unmarshal response: %v: %s", err, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}

func TestDataset_ETag(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/dataset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag != `"00000000000000ab"` {
		t.Errorf("unexpected ETag %q", etag)
	}
	var resp models.DatasetResponse
	decode(t, w, &resp)
	if resp.Positions != 4 || resp.Coverpages != 2 {
		t.Errorf("unexpected counts %+v", resp)
	}
	if resp.ETag != etag {
		t.Errorf("Expected body etag %q, got %q", etag, resp.ETag)
	}

	req, _ := http.NewRequest(http.MethodGet, "/dataset", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("Expected status 304, got %d", w.Code)
	}
}

func TestSearchFunds(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/funds/search?q=fund&limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp models.FundSearchResponse
	decode(t, w, &resp)
	if resp.Count != 1 || resp.Results[0].Name != "Fund X" {
		t.Errorf("unexpected results %+v", resp)
	}

	w = doRequest(router, http.MethodGet, "/funds/search?q=fund&limit=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for negative limit, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/funds/search?q=fund&limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric limit, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/funds/search", nil)
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Count != 0 {
		t.Errorf("expected empty result for empty query, got %d %+v", w.Code, resp)
	}
}

func TestSecurityHolders(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/securities/holders?q=apple", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp models.SecurityHoldersResponse
	decode(t, w, &resp)
	if len(resp.Holders) != 2 {
		t.Fatalf("expected 2 holders, got %+v", resp.Holders)
	}
	if resp.Holders[0].FilingManagerName != "Fund X" || resp.Holders[0].Value != 150 {
		t.Errorf("unexpected first holder %+v", resp.Holders[0])
	}
	if resp.Holders[1].FilingManagerName != "Fund Y" || resp.Holders[1].Value != 30 {
		t.Errorf("unexpected second holder %+v", resp.Holders[1])
	}
	if resp.SampleLimited {
		t.Error("expected sample_limited false for a full index")
	}
}

func TestFundHoldingsAndStats(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/funds/holdings?q=fund+y", nil)
	var holdings models.FundHoldingsResponse
	decode(t, w, &holdings)
	if holdings.Count != 2 || holdings.Holdings[0].NameOfIssuer != "ISHARES TR" {
		t.Errorf("unexpected holdings %+v", holdings)
	}

	w = doRequest(router, http.MethodGet, "/funds/stats?q=fund+x", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var stats models.FundStatsResponse
	decode(t, w, &stats)
	if stats.TotalValue != 150 || stats.TopHolding != "APPLE INC" {
		t.Errorf("unexpected stats %+v", stats)
	}

	w = doRequest(router, http.MethodGet, "/funds/stats?q=nonexistent+fund+name", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	var errResp models.ErrorResponse
	decode(t, w, &errResp)
	if errResp.Error != "not_found" {
		t.Errorf("expected not_found, got %q", errResp.Error)
	}
}

func TestMarketEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/market/overview", nil)
	var overview models.MarketOverviewResponse
	decode(t, w, &overview)
	if overview.Overview.TotalValue != 250 || overview.Overview.UniqueSecurities != 2 {
		t.Errorf("unexpected overview %+v", overview.Overview)
	}

	w = doRequest(router, http.MethodGet, "/market/popular?top=1", nil)
	var popular models.PopularSecuritiesResponse
	decode(t, w, &popular)
	if popular.Count != 1 || popular.Securities[0].NameOfIssuer != "APPLE INC" || popular.Securities[0].FundCount != 2 {
		t.Errorf("unexpected popular %+v", popular)
	}

	w = doRequest(router, http.MethodGet, "/market/funds", nil)
	var funds models.TopFundsResponse
	decode(t, w, &funds)
	if funds.Count != 2 || funds.Funds[0].AccessionNumber != "A1" || funds.Funds[1].TableValueTotal != nil {
		t.Errorf("unexpected funds %+v", funds)
	}
}

func TestEnrichEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/enrich/ticker?name=APPLE+INC", nil)
	var ticker models.TickerResponse
	decode(t, w, &ticker)
	if ticker.Ticker == nil || *ticker.Ticker != "AAPL" {
		t.Errorf("expected AAPL, got %+v", ticker)
	}

	w = doRequest(router, http.MethodGet, "/enrich/ticker?name=OBSCURE+HOLDINGS+LLC", nil)
	decode(t, w, &ticker)
	if ticker.Ticker != nil {
		t.Errorf("expected null ticker, got %q", *ticker.Ticker)
	}

	w = doRequest(router, http.MethodGet, "/enrich/ticker", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without name, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/enrich/sector?name=APPLE+INC&ticker=aapl", nil)
	var sector models.SectorResponse
	decode(t, w, &sector)
	if sector.Sector != "Technology" {
		t.Errorf("expected Technology, got %q", sector.Sector)
	}

	w = doRequest(router, http.MethodGet, "/enrich/sector?name=OBSCURE+HOLDINGS+LLC", nil)
	decode(t, w, &sector)
	if sector.Sector != models.SectorUnknown {
		t.Errorf("expected Unknown, got %q", sector.Sector)
	}

	w = doRequest(router, http.MethodPost, "/enrich/batch", models.BatchEnrichRequest{Tickers: []string{"AAPL", "NOPE"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var batch models.BatchEnrichResponse
	decode(t, w, &batch)
	if len(batch.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(batch.Results))
	}
	if batch.Results[0].PriceChange == nil || *batch.Results[0].PriceChange != 10.0 {
		t.Errorf("unexpected AAPL result %+v", batch.Results[0])
	}
	if batch.Results[1].PriceChange != nil || batch.Results[1].Sector != models.SectorUnknown {
		t.Errorf("unexpected NOPE result %+v", batch.Results[1])
	}
	if len(batch.Warnings) == 0 {
		t.Error("expected degraded-lookup warnings for NOPE")
	}

	w = doRequest(router, http.MethodPost, "/enrich/batch", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without tickers, got %d", w.Code)
	}
}

func TestCacheEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPut, "/cache/mapping", models.ManualMappingRequest{
		CompanyName: "Acme Corp", Ticker: "acme", Sector: "Industrials",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var mapping models.MappingResponse
	decode(t, w, &mapping)
	if !mapping.Stored || mapping.Entry.Ticker != "ACME" || mapping.Entry.Source != models.SourceManual {
		t.Errorf("unexpected mapping %+v", mapping)
	}

	w = doRequest(router, http.MethodGet, "/cache/stats", nil)
	var stats models.CacheStats
	decode(t, w, &stats)
	if stats.Total != 1 || stats.Sectors["Industrials"] != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	w = doRequest(router, http.MethodGet, "/cache/similar?name=ACME+CORP", nil)
	var similar models.SimilarCompaniesResponse
	decode(t, w, &similar)
	if len(similar.Matches) != 1 || similar.Matches[0].CompanyName != "ACME CORP" {
		t.Errorf("unexpected matches %+v", similar)
	}

	w = doRequest(router, http.MethodGet, "/cache/similar", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without name, got %d", w.Code)
	}
}
