package vault

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
)

// This file contains the equity quote providers. Equity prices are quoted in
// US dollars; the USD-quoted stock table is pivoted to fiat currencies by the
// conversion engine.

// yahooChartProvider fetches the current market price of a ticker from a
// Yahoo Finance chart style endpoint.
//
//	{ "chart": { "result": [ { "meta": {
//	    "currency": "USD", "symbol": "AAPL",
//	    "regularMarketPrice": 227.52, "previousClose": 226.8 } } ],
//	  "error": null } }
type yahooChartProvider struct {
	base   string
	client *http.Client
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func newYahooChartProvider() *yahooChartProvider {
	return &yahooChartProvider{base: "https://query1.finance.yahoo.com/v8/finance/chart", client: liveClient()}
}

func (p *yahooChartProvider) Name() string { return "yahoo" }

func (p *yahooChartProvider) QuoteUSD(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/%s", p.base, strings.ToUpper(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, err
	}
	// A browser-like agent avoids bot rejection on this endpoint.
	req.Header.Set("User-Agent", browserUserAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return 0, fmt.Errorf("cannot http GET %v: %v", addr, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var content struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					PreviousClose      float64 `json:"previousClose"`
				} `json:"meta"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &content); err != nil {
		return 0, err
	}
	if content.Chart.Error != nil {
		return 0, fmt.Errorf("chart error for %q: %s %s", symbol, content.Chart.Error.Code, content.Chart.Error.Description)
	}
	if len(content.Chart.Result) == 0 {
		return 0, fmt.Errorf("empty chart result for %q", symbol)
	}
	meta := content.Chart.Result[0].Meta
	if meta.RegularMarketPrice > 0 {
		return meta.RegularMarketPrice, nil
	}
	if meta.PreviousClose > 0 {
		return meta.PreviousClose, nil
	}
	return 0, fmt.Errorf("no market price for %q", symbol)
}

// stooqProvider fetches the latest quote of a US ticker from a stooq.com
// style CSV endpoint. Secondary equity source.
//
//	Symbol,Date,Time,Open,High,Low,Close,Volume
//	AAPL.US,2025-06-27,22:00:11,226.31,229.45,225.78,227.52,43120000
type stooqProvider struct {
	base   string
	client *http.Client
}

func newStooqProvider() *stooqProvider {
	return &stooqProvider{base: "https://stooq.com/q/l/", client: liveClient()}
}

func (p *stooqProvider) Name() string { return "stooq" }

func (p *stooqProvider) QuoteUSD(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s?s=%s.us&f=sd2t2ohlcv&h&e=csv", p.base, strings.ToLower(symbol))
	body, err := wget(ctx, p.client, addr)
	if err != nil {
		return 0, err
	}
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("invalid csv for %q: %w", symbol, err)
	}
	if len(records) < 2 || len(records[1]) < 7 {
		return 0, fmt.Errorf("empty csv quote for %q", symbol)
	}
	// Column 6 is the close; stooq writes "N/D" for unknown tickers.
	price, err := strconv.ParseFloat(records[1][6], 64)
	if err != nil {
		return 0, fmt.Errorf("no quote for %q: %q", symbol, records[1][6])
	}
	return price, nil
}

// eodhdProvider fetches daily closes, adjusted for splits, from an eodhd.com
// style endpoint. Last-resort equity source when intraday quotes are
// unavailable: the latest daily close stands in for the spot price.
//
//	[ { "date": "2025-06-27", "open": 226.31, "adjusted_close": 227.52, ... } ]
type eodhdProvider struct {
	base   string
	apiKey string
	client *http.Client
}

func newEODHDProvider(apiKey string) *eodhdProvider {
	// query daily closes at most once a day
	return &eodhdProvider{base: "https://eodhd.com/api/eod", apiKey: apiKey, client: dailyClient()}
}

func (p *eodhdProvider) Name() string { return "eodhd" }

func (p *eodhdProvider) QuoteUSD(ctx context.Context, symbol string) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("no eodhd api key configured")
	}
	to := date.Today()
	from := to.Add(-7) // one week of closes covers any run of market holidays
	addr := fmt.Sprintf("%s/%s.US?fmt=json&api_token=%s&from=%s&to=%s",
		p.base, strings.ToUpper(symbol), p.apiKey, from, to)

	var content []struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"adjusted_close"`
	}
	if err := jwget(ctx, p.client, addr, &content); err != nil {
		return 0, err
	}

	var closes date.History[float64]
	for _, info := range content {
		closes.Append(info.Date, info.Close)
	}
	if closes.Len() == 0 {
		return 0, fmt.Errorf("no daily closes for %q", symbol)
	}
	_, latest := closes.Latest()
	return latest, nil
}
