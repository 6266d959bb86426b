package vault

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// This file contains the fiat exchange-rate providers.

// erAPIProvider fetches a full rate table for a base currency from an
// er-api.com style endpoint.
//
//	{
//	  "result": "success",
//	  "base_code": "EUR",
//	  "rates": { "EUR": 1, "USD": 1.0823, ... }
//	}
type erAPIProvider struct {
	base   string // endpoint base, overridable in tests
	client *http.Client
}

func newERAPIProvider() *erAPIProvider {
	return &erAPIProvider{base: "https://open.er-api.com/v6/latest", client: liveClient()}
}

func (p *erAPIProvider) Name() string { return "er-api" }

func (p *erAPIProvider) Rates(ctx context.Context, base string) (map[string]float64, error) {
	addr := fmt.Sprintf("%s/%s", p.base, strings.ToUpper(base))
	var content struct {
		Result   string             `json:"result"`
		BaseCode string             `json:"base_code"`
		Rates    map[string]float64 `json:"rates"`
	}
	if err := jwget(ctx, p.client, addr, &content); err != nil {
		return nil, err
	}
	if content.Result != "success" {
		return nil, fmt.Errorf("er-api returned result %q for base %q", content.Result, base)
	}
	if len(content.Rates) == 0 {
		return nil, fmt.Errorf("er-api returned no rates for base %q", base)
	}
	return content.Rates, nil
}

// frankfurterProvider fetches a single currency pair from a frankfurter.app
// style endpoint. Used as the symbol-level fallback when the primary table
// is missing a mandatory code.
//
//	{ "base": "EUR", "rates": { "USD": 1.0834 } }
type frankfurterProvider struct {
	base   string
	client *http.Client
}

func newFrankfurterProvider() *frankfurterProvider {
	return &frankfurterProvider{base: "https://api.frankfurter.app", client: liveClient()}
}

func (p *frankfurterProvider) Name() string { return "frankfurter" }

func (p *frankfurterProvider) Rate(ctx context.Context, base, symbol string) (float64, error) {
	base, symbol = strings.ToUpper(base), strings.ToUpper(symbol)
	addr := fmt.Sprintf("%s/latest?from=%s&to=%s", p.base, base, symbol)
	var content struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := jwget(ctx, p.client, addr, &content); err != nil {
		return 0, err
	}
	rate, ok := content.Rates[symbol]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("frankfurter has no rate for %s/%s", base, symbol)
	}
	return rate, nil
}

// floatRatesProvider fetches the USD-anchored daily rate table from a
// floatrates.com style endpoint: code → units of code per one USD. It is the
// last fallback for mandatory FX codes; the USD-quoted rate is re-pivoted to
// the requested base by the aggregator when the base's USD rate is known.
//
//	{ "eur": { "code": "EUR", "rate": 0.9231, ... }, ... }
type floatRatesProvider struct {
	base   string
	client *http.Client
}

func newFloatRatesProvider() *floatRatesProvider {
	return &floatRatesProvider{base: "https://www.floatrates.com/daily/usd.json", client: dailyClient()}
}

func (p *floatRatesProvider) Name() string { return "floatrates" }

// USDRate returns the units of symbol per one US dollar.
func (p *floatRatesProvider) USDRate(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	if symbol == "USD" {
		return 1.0, nil
	}
	var content map[string]struct {
		Code string  `json:"code"`
		Rate float64 `json:"rate"`
	}
	if err := jwget(ctx, p.client, p.base, &content); err != nil {
		return 0, err
	}
	entry, ok := content[strings.ToLower(symbol)]
	if !ok || entry.Rate <= 0 {
		return 0, fmt.Errorf("floatrates has no USD rate for %q", symbol)
	}
	return entry.Rate, nil
}
