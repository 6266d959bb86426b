package vault

import (
	"errors"
	"testing"
)

func testSnapshot() RateSnapshot {
	return RateSnapshot{
		Base: "EUR",
		FXRates: map[string]float64{
			"EUR": 1.0,
			"USD": 1.1,
			"GBP": 0.85,
		},
		CryptoUSD: map[string]float64{"BTC": 50000},
		MetalUSD:  map[string]float64{"XAU": 2400},
		StockUSD:  map[string]float64{"AAPL": 220},
	}
}

func TestConvert_Fiat(t *testing.T) {
	c := NewConverter(testSnapshot())

	tests := []struct {
		name   string
		amount string
		asset  string
		target string
		want   string
	}{
		{"identity", "123.45", "USD", "USD", "123.45"},
		{"identity is case-insensitive", "7", "usd", "USD", "7"},
		{"to base", "110", "USD", "EUR", "100"},
		{"from base", "100", "EUR", "USD", "110"},
		{"pivot through base", "110", "USD", "GBP", "85"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Convert(dec(tc.amount), tc.asset, Fiat, tc.target)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(dec(tc.want)) {
				t.Errorf("Convert(%s %s -> %s) = %s, want %s", tc.amount, tc.asset, tc.target, got, tc.want)
			}
		})
	}
}

func TestConvert_IdentityNeedsNoSnapshot(t *testing.T) {
	c := NewConverter(RateSnapshot{})
	got, err := c.Convert(dec("42"), "JPY", Fiat, "JPY")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("42")) {
		t.Errorf("identity conversion = %s, want 42", got)
	}
}

func TestConvert_NonFiatPivotsThroughUSD(t *testing.T) {
	c := NewConverter(testSnapshot())

	// 2 BTC = 100000 USD = 90909.09... EUR at 1.1 USD per EUR.
	got, err := c.Convert(dec("2"), "BTC", Crypto, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	want := dec("100000").Div(dec("1.1"))
	if !got.Sub(want).Abs().LessThan(dec("0.0001")) {
		t.Errorf("2 BTC in EUR = %s, want %s", got, want)
	}

	// Direct USD target skips the fiat pivot entirely.
	got, err = c.Convert(dec("2"), "BTC", Crypto, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("100000")) {
		t.Errorf("2 BTC in USD = %s, want 100000", got)
	}
}

func TestConvert_MetalAlias(t *testing.T) {
	c := NewConverter(testSnapshot())
	got, err := c.Convert(dec("1"), "GOLD", Metal, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("2400")) {
		t.Errorf("1 GOLD in USD = %s, want 2400", got)
	}
}

func TestConvert_NoRate(t *testing.T) {
	c := NewConverter(testSnapshot())

	tests := []struct {
		name   string
		asset  string
		kind   AssetKind
		target string
	}{
		{"unknown fiat source", "JPY", Fiat, "EUR"},
		{"unknown fiat target", "EUR", Fiat, "JPY"},
		{"unpriced crypto", "DOGE", Crypto, "EUR"},
		{"unpriced stock", "MSFT", Stock, "USD"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Convert(dec("1"), tc.asset, tc.kind, tc.target)
			if !errors.Is(err, ErrNoRate) {
				t.Errorf("err = %v, want ErrNoRate", err)
			}
		})
	}
}

func TestConvert_MissingUSDPivotFailsNonFiat(t *testing.T) {
	snap := testSnapshot()
	delete(snap.FXRates, "USD")
	c := NewConverter(snap)
	if _, err := c.Convert(dec("1"), "BTC", Crypto, "EUR"); !errors.Is(err, ErrNoRate) {
		t.Errorf("err = %v, want ErrNoRate when the USD pivot is missing", err)
	}
}

func TestTotalIn(t *testing.T) {
	l := NewLedger()
	cash, _ := l.AddWallet(NewWallet("Cash", Fiat, "EUR"))
	usd, _ := l.AddWallet(NewWallet("Dollars", Fiat, "USD"))
	coins, _ := l.AddWallet(NewWallet("Coins", Crypto, "DOGE")) // unpriced
	l.wallets[cash.ID].Balance = dec("100")
	l.wallets[usd.ID].Balance = dec("110")
	l.wallets[coins.ID].Balance = dec("1000")

	c := NewConverter(testSnapshot())
	total, omitted := c.TotalIn(l, "EUR")

	if want := M(dec("200"), "EUR"); !total.Equal(want) {
		t.Errorf("total = %s, want %s", total, want)
	}
	if len(omitted) != 1 || omitted[0].ID != coins.ID {
		t.Errorf("omitted = %v, want the unpriced DOGE wallet", omitted)
	}
}
