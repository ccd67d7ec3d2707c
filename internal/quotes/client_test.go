package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/AAPL", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("modules"); got != "assetProfile,quoteType,fundProfile" {
			t.Errorf("unexpected modules %q", got)
		}
		w.Write([]byte(`{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"},"quoteType":{"quoteType":"EQUITY"}}],"error":null}}`))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/IEMG", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"quoteType":{"quoteType":"ETF"},"fundProfile":{"categoryName":"Diversified Emerging Mkts"}}],"error":null}}`))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/NOPE", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOPE"}}}`))
	})
	mux.HandleFunc("/v8/finance/chart/AAPL", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("range"); got != "1mo" {
			t.Errorf("unexpected range %q", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("unexpected interval %q", got)
		}
		w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[null,200.0,210.5,null,220.0]}]}}],"error":null}}`))
	})
	mux.HandleFunc("/v8/finance/chart/THIN", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[12.5]}]}}],"error":null}}`))
	})
	mux.HandleFunc("/v8/finance/chart/DOWN", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestProfile_Equity(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	p, err := client.Profile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.Sector != "Technology" || p.Industry != "Consumer Electronics" {
		t.Errorf("unexpected profile %+v", p)
	}
	if p.IsFund() {
		t.Error("expected AAPL not to be a fund")
	}
	if got := p.BestSector(); got != "Technology" {
		t.Errorf("expected Technology, got %q", got)
	}
}

func TestProfile_FundFallsBackToCategory(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	p, err := client.Profile(context.Background(), "IEMG")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if !p.IsFund() {
		t.Error("expected IEMG to be a fund")
	}
	if got := p.BestSector(); got != "Diversified Emerging Mkts" {
		t.Errorf("expected category fallback, got %q", got)
	}
}

func TestProfile_NotFound(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	if _, err := client.Profile(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for unknown ticker")
	}
}

func TestPriceChange(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	change, err := client.PriceChange(context.Background(), "AAPL", "")
	if err != nil {
		t.Fatalf("PriceChange failed: %v", err)
	}
	if change != 10.0 {
		t.Errorf("expected 10.0, got %v", change)
	}
}

func TestPriceChange_Errors(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	for _, ticker := range []string{"THIN", "DOWN", "MISSING"} {
		if _, err := client.PriceChange(context.Background(), ticker, "1mo"); err == nil {
			t.Errorf("expected error for %s", ticker)
		}
	}
}

func TestPriceChange_ContextCanceled(t *testing.T) {
	client := NewClientWithBaseURL(newMockServer(t).URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.PriceChange(ctx, "AAPL", "1mo"); err == nil {
		t.Fatal("expected error on canceled context")
	}
}
