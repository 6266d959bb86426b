package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoRate reports that a conversion could not be priced from the current
// snapshot. The caller decides whether to omit, retry or surface it.
var ErrNoRate = errors.New("no rate available")

// Converter converts asset amounts using one immutable rate snapshot, so a
// batch of conversions (a portfolio total, a report) is internally consistent
// even while the aggregator refreshes in the background.
type Converter struct {
	snap RateSnapshot
}

func NewConverter(snap RateSnapshot) Converter { return Converter{snap: snap} }

// Convert converts an amount of an asset into a target fiat currency.
//
// Fiat amounts pivot through the snapshot base: amount ÷ rate(code) ×
// rate(target). Non-fiat amounts are valued in US dollars first, then pivoted
// like a USD fiat amount. Same-code fiat conversions are exact identities and
// need no snapshot at all.
func (c Converter) Convert(amount decimal.Decimal, asset string, kind AssetKind, target string) (decimal.Decimal, error) {
	asset, target = strings.ToUpper(asset), strings.ToUpper(target)

	if kind == Fiat {
		if asset == target {
			return amount, nil
		}
		from, ok := c.snap.FXRate(asset)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w for currency %s", ErrNoRate, asset)
		}
		to, ok := c.snap.FXRate(target)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w for currency %s", ErrNoRate, target)
		}
		return amount.
			Div(decimal.NewFromFloat(from)).
			Mul(decimal.NewFromFloat(to)), nil
	}

	price, ok := c.snap.USDPrice(kind, asset)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s asset %s", ErrNoRate, kind, asset)
	}
	usd := amount.Mul(decimal.NewFromFloat(price))
	if target == "USD" {
		return usd, nil
	}
	usdRate, ok := c.snap.FXRate("USD")
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for pivot currency USD", ErrNoRate)
	}
	to, ok := c.snap.FXRate(target)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for currency %s", ErrNoRate, target)
	}
	return usd.
		Div(decimal.NewFromFloat(usdRate)).
		Mul(decimal.NewFromFloat(to)), nil
}

// ConvertMoney is Convert for a fiat Money value.
func (c Converter) ConvertMoney(m Money, target string) (Money, error) {
	value, err := c.Convert(m.Amount(), m.Currency(), Fiat, target)
	if err != nil {
		return Money{}, err
	}
	return M(value, strings.ToUpper(target)), nil
}

// TotalIn sums every wallet balance of the ledger converted to the target
// currency. Wallets that cannot be priced from the snapshot are left out of
// the total and returned so the caller can flag the partial result.
func (c Converter) TotalIn(l *Ledger, target string) (total Money, omitted []Wallet) {
	target = strings.ToUpper(target)
	total = M(0, target)
	for w := range l.Wallets() {
		value, err := c.Convert(w.Balance, w.Asset, w.Kind, target)
		if err != nil {
			omitted = append(omitted, w)
			continue
		}
		total = total.Add(M(value, target))
	}
	return total, omitted
}
