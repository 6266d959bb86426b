package vault

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestYahooChartProvider_QuoteUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/AAPL" {
			t.Errorf("path = %q, want /AAPL", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != browserUserAgent {
			t.Errorf("missing browser user agent, got %q", ua)
		}
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":227.52,"previousClose":226.8}}],"error":null}}`)
	}))
	defer srv.Close()

	p := &yahooChartProvider{base: srv.URL, client: srv.Client()}
	price, err := p.QuoteUSD(context.Background(), "aapl")
	if err != nil {
		t.Fatal(err)
	}
	if price != 227.52 {
		t.Errorf("price = %v, want 227.52", price)
	}
}

func TestYahooChartProvider_FallsBackToPreviousClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"previousClose":226.8}}],"error":null}}`)
	}))
	defer srv.Close()

	p := &yahooChartProvider{base: srv.URL, client: srv.Client()}
	price, err := p.QuoteUSD(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if price != 226.8 {
		t.Errorf("price = %v, want previous close 226.8", price)
	}
}

func TestYahooChartProvider_ChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	p := &yahooChartProvider{base: srv.URL, client: srv.Client()}
	if _, err := p.QuoteUSD(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected chart error")
	}
}

func TestStooqProvider_QuoteUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "aapl.us" {
			t.Errorf("s = %q, want aapl.us", got)
		}
		fmt.Fprint(w, "Symbol,Date,Time,Open,High,Low,Close,Volume\nAAPL.US,2026-08-26,22:00:11,226.31,229.45,225.78,227.52,43120000\n")
	}))
	defer srv.Close()

	p := &stooqProvider{base: srv.URL, client: srv.Client()}
	price, err := p.QuoteUSD(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if price != 227.52 {
		t.Errorf("price = %v, want 227.52", price)
	}
}

func TestStooqProvider_UnknownTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Symbol,Date,Time,Open,High,Low,Close,Volume\nNOPE.US,N/D,N/D,N/D,N/D,N/D,N/D,N/D\n")
	}))
	defer srv.Close()

	p := &stooqProvider{base: srv.URL, client: srv.Client()}
	if _, err := p.QuoteUSD(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for N/D quote")
	}
}

func TestEODHDProvider_LatestClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_token"); got != "demo" {
			t.Errorf("api_token = %q, want demo", got)
		}
		fmt.Fprint(w, `[{"date":"2026-08-24","adjusted_close":225.10},{"date":"2026-08-26","adjusted_close":227.52},{"date":"2026-08-25","adjusted_close":226.40}]`)
	}))
	defer srv.Close()

	p := &eodhdProvider{base: srv.URL, apiKey: "demo", client: srv.Client()}
	price, err := p.QuoteUSD(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	// The most recent close wins, whatever the payload order.
	if price != 227.52 {
		t.Errorf("price = %v, want 227.52", price)
	}
}

func TestEODHDProvider_RequiresAPIKey(t *testing.T) {
	p := &eodhdProvider{base: "http://unused.invalid"}
	if _, err := p.QuoteUSD(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error without an api key")
	}
}
