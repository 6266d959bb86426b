package vault

import (
	"context"
	"errors"
	"fmt"
)

// QuoteProvider is the common capability of every per-symbol price source:
// one operation, fetch the USD price of a symbol, fail or succeed. Each asset
// class holds an ordered list of these, iterated until one succeeds, so
// adding or reordering providers is a data change, not a code change.
type QuoteProvider interface {
	// Name identifies the provider in logs.
	Name() string
	// QuoteUSD returns the current price of symbol expressed in US dollars.
	QuoteUSD(ctx context.Context, symbol string) (float64, error)
}

// quoteChain tries each provider in order and returns the first positive
// quote. A non-positive quote counts as a failure and the next provider is
// tried.
type quoteChain []QuoteProvider

func (c quoteChain) quoteUSD(ctx context.Context, symbol string) (float64, error) {
	var errs error
	for _, p := range c {
		price, err := p.QuoteUSD(ctx, symbol)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if price <= 0 {
			errs = errors.Join(errs, fmt.Errorf("%s: non-positive quote %v for %q", p.Name(), price, symbol))
			continue
		}
		return price, nil
	}
	if errs == nil {
		errs = fmt.Errorf("no provider for %q", symbol)
	}
	return 0, errs
}

// RateTableProvider fetches a whole FX rate table for a base currency:
// code → units of code per one unit of base.
type RateTableProvider interface {
	Name() string
	Rates(ctx context.Context, base string) (map[string]float64, error)
}

// PairProvider fetches the rate of a single symbol against a base currency.
type PairProvider interface {
	Name() string
	Rate(ctx context.Context, base, symbol string) (float64, error)
}

// USDRateProvider fetches the units of a currency per one US dollar. The
// USD-anchored quote is re-pivoted to the working base by the caller.
type USDRateProvider interface {
	Name() string
	USDRate(ctx context.Context, symbol string) (float64, error)
}
