package vault

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// binanceSpotProvider fetches per-symbol spot prices against a USDT quote
// from a Binance-style ticker endpoint. One request per symbol; the
// aggregator fans them out concurrently and each is independently ignorable
// on failure.
//
//	{ "symbol": "BTCUSDT", "price": "64123.45000000" }
//
// The USDT quote is treated as one US dollar, which is the working assumption
// of the whole crypto table.
type binanceSpotProvider struct {
	base   string
	quote  string // quote asset appended to the symbol, USDT by default
	client *http.Client
}

func newBinanceSpotProvider() *binanceSpotProvider {
	return &binanceSpotProvider{
		base:   "https://api.binance.com/api/v3/ticker/price",
		quote:  "USDT",
		client: liveClient(),
	}
}

func (p *binanceSpotProvider) Name() string { return "binance" }

func (p *binanceSpotProvider) QuoteUSD(ctx context.Context, symbol string) (float64, error) {
	pair := strings.ToUpper(symbol) + p.quote
	addr := fmt.Sprintf("%s?symbol=%s", p.base, pair)
	var content struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := jwget(ctx, p.client, addr, &content); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(content.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q for pair %s: %w", content.Price, pair, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("empty price for pair %s", pair)
	}
	return price, nil
}
