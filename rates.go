package vault

import (
	"context"
	"log"
	"maps"
	"strings"
	"sync"
	"time"
)

// assetClass identifies one independently refreshed slice of the snapshot.
type assetClass string

const (
	classFX     assetClass = "fx"
	classCrypto assetClass = "crypto"
	classMetal  assetClass = "metal"
	classStock  assetClass = "stock"
)

// Default refresh TTLs. Crypto is short because of volatility; the other
// classes refresh at most twice a day to respect free-tier rate limits.
const (
	defaultFXTTL     = 12 * time.Hour
	defaultCryptoTTL = 5 * time.Minute
	defaultMetalTTL  = 12 * time.Hour
	defaultStockTTL  = 12 * time.Hour
)

// mandatoryFXCodes always get fallback resolution when the primary FX table
// omits them: USD because it is the pivot for every non-fiat conversion, EUR
// because it is the most common display currency.
var mandatoryFXCodes = []string{"USD", "EUR"}

// RateSnapshot is the last-known rate state: an FX table relative to a base
// currency and USD-quoted price tables per non-fiat asset class, each with
// its own fetch timestamp.
//
// Invariant: once the FX table is populated it contains its own base code
// with a rate of exactly 1.
type RateSnapshot struct {
	Base      string
	FXRates   map[string]float64
	CryptoUSD map[string]float64
	MetalUSD  map[string]float64
	StockUSD  map[string]float64

	LastFX     time.Time
	LastCrypto time.Time
	LastMetal  time.Time
	LastStock  time.Time
}

// FXRate returns the rate of a currency code relative to the snapshot base.
func (s RateSnapshot) FXRate(code string) (float64, bool) {
	rate, ok := s.FXRates[strings.ToUpper(code)]
	return rate, ok && rate > 0
}

// USDPrice returns the cached USD price of a non-fiat asset.
func (s RateSnapshot) USDPrice(kind AssetKind, symbol string) (float64, bool) {
	symbol = strings.ToUpper(symbol)
	var table map[string]float64
	switch kind {
	case Crypto:
		table = s.CryptoUSD
	case Metal:
		table = s.MetalUSD
		symbol = canonicalMetal(symbol)
	case Stock:
		table = s.StockUSD
	default:
		return 0, false
	}
	price, ok := table[symbol]
	return price, ok && price > 0
}

// lastUpdate returns the fetch timestamp of one class.
func (s RateSnapshot) lastUpdate(class assetClass) time.Time {
	switch class {
	case classFX:
		return s.LastFX
	case classCrypto:
		return s.LastCrypto
	case classMetal:
		return s.LastMetal
	case classStock:
		return s.LastStock
	}
	return time.Time{}
}

// clone returns a deep copy of the snapshot.
func (s RateSnapshot) clone() RateSnapshot {
	c := s
	c.FXRates = maps.Clone(s.FXRates)
	c.CryptoUSD = maps.Clone(s.CryptoUSD)
	c.MetalUSD = maps.Clone(s.MetalUSD)
	c.StockUSD = maps.Clone(s.StockUSD)
	return c
}

// Aggregator is the single writer of the rate snapshot.
//
// Provider calls fan out to concurrent workers; their results funnel back
// into whole-table merges under one mutex, so a concurrent reader observes
// either the pre- or post-refresh table per class, never a half-updated one.
// After every successful merge the snapshot is written through to the cache
// file, so a later crash does not lose the refresh.
type Aggregator struct {
	mu   sync.RWMutex
	snap RateSnapshot

	cache *CacheFile // optional; nil disables persistence
	now   func() time.Time

	fxTTL     time.Duration
	cryptoTTL time.Duration
	metalTTL  time.Duration
	stockTTL  time.Duration

	fxPrimary   RateTableProvider
	fxFallback  PairProvider
	usdFallback USDRateProvider
	cryptoChain quoteChain
	metalChain  quoteChain
	stockChain  quoteChain
}

// NewAggregator wires the default provider chains and loads the last
// persisted snapshot, if any, so conversions work offline from the start.
func NewAggregator(cache *CacheFile, s Settings) *Aggregator {
	a := &Aggregator{
		cache:       cache,
		now:         time.Now,
		fxTTL:       s.ttlOr(s.FXTTLHours, defaultFXTTL),
		cryptoTTL:   s.ttlOrMinutes(s.CryptoTTLMinutes, defaultCryptoTTL),
		metalTTL:    s.ttlOr(s.MetalTTLHours, defaultMetalTTL),
		stockTTL:    s.ttlOr(s.StockTTLHours, defaultStockTTL),
		fxPrimary:   newERAPIProvider(),
		fxFallback:  newFrankfurterProvider(),
		usdFallback: newFloatRatesProvider(),
		cryptoChain: quoteChain{newBinanceSpotProvider()},
		metalChain:  quoteChain{newGoldAPIProvider(), newMetalRateProvider()},
		stockChain:  quoteChain{newYahooChartProvider(), newStooqProvider(), newEODHDProvider(s.EODHDAPIKey)},
	}
	if cache != nil {
		snap, err := cache.Load()
		switch {
		case err == nil:
			a.snap = snap
		default:
			log.Printf("rate cache not loaded: %v", err)
		}
	}
	return a
}

// Snapshot returns a deep copy of the current rate state.
func (a *Aggregator) Snapshot() RateSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.clone()
}

// RefreshAll refreshes every asset class that is due, against the wallets
// actually held. It never fails: a provider failure leaves the prior state of
// its class untouched, and a stuck provider delays only its own class.
//
// A class is due when force is set, when its TTL has expired, or, for FX,
// when the requested base differs from the cached one.
func (a *Aggregator) RefreshAll(ctx context.Context, base string, assets []WalletAsset, force bool) {
	base = strings.ToUpper(base)

	symbols := map[assetClass][]string{}
	seen := map[string]bool{}
	for _, as := range assets {
		code := strings.ToUpper(as.Asset)
		var class assetClass
		switch as.Kind {
		case Crypto:
			class = classCrypto
		case Metal:
			class = classMetal
			code = canonicalMetal(code)
		case Stock:
			class = classStock
		default:
			continue // fiat wallets are covered by the FX table
		}
		key := string(class) + ":" + code
		if !seen[key] {
			seen[key] = true
			symbols[class] = append(symbols[class], code)
		}
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); a.refreshFX(ctx, base, force) }()
	go func() { defer wg.Done(); a.refreshUSDTable(ctx, classCrypto, symbols[classCrypto], a.cryptoChain, force) }()
	go func() { defer wg.Done(); a.refreshUSDTable(ctx, classMetal, symbols[classMetal], a.metalChain, force) }()
	go func() { defer wg.Done(); a.refreshUSDTable(ctx, classStock, symbols[classStock], a.stockChain, force) }()
	wg.Wait()
}

// due reports whether a class refresh is due.
func (a *Aggregator) due(class assetClass, base string, force bool) bool {
	if force {
		return true
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if class == classFX && a.snap.Base != base {
		return true
	}
	last := a.snap.lastUpdate(class)
	if last.IsZero() {
		return true
	}
	return a.now().Sub(last) > a.ttl(class)
}

func (a *Aggregator) ttl(class assetClass) time.Duration {
	switch class {
	case classCrypto:
		return a.cryptoTTL
	case classMetal:
		return a.metalTTL
	case classStock:
		return a.stockTTL
	default:
		return a.fxTTL
	}
}

// refreshFX fetches a fresh FX table for the base and resolves mandatory
// codes missing from the primary response through the fallback providers.
func (a *Aggregator) refreshFX(ctx context.Context, base string, force bool) {
	if !a.due(classFX, base, force) {
		return
	}
	began := a.now()

	rates, err := a.fxPrimary.Rates(ctx, base)
	if err != nil {
		log.Printf("fx refresh failed (%s): %v", a.fxPrimary.Name(), err)
		return
	}

	table := make(map[string]float64, len(rates))
	for code, rate := range rates {
		table[strings.ToUpper(code)] = rate
	}
	// The base's own rate is exactly 1, whatever the provider said.
	table[base] = 1.0

	for _, code := range mandatoryFXCodes {
		if code == base {
			continue
		}
		if _, ok := table[code]; ok {
			continue
		}
		if rate, err := a.fxFallback.Rate(ctx, base, code); err == nil && rate > 0 {
			table[code] = rate
			continue
		} else if err != nil {
			log.Printf("fx fallback %s failed for %s: %v", a.fxFallback.Name(), code, err)
		}
		// USD-anchored resolution: (code per USD) × (USD per base).
		usdPerBase, ok := table["USD"]
		if !ok {
			continue
		}
		if perUSD, err := a.usdFallback.USDRate(ctx, code); err == nil && perUSD > 0 {
			table[code] = perUSD * usdPerBase
		} else if err != nil {
			// Leave the code absent: an invented value is worse than a
			// conversion failure the caller can report.
			log.Printf("usd-anchored fallback %s failed for %s: %v", a.usdFallback.Name(), code, err)
		}
	}

	a.merge(classFX, began, func(s *RateSnapshot) {
		s.Base = base
		s.FXRates = table
		s.LastFX = a.now()
	})
}

// refreshUSDTable refreshes one non-fiat class table: one concurrent quote
// per held symbol, each independently ignorable on failure. Successful quotes
// are merged over the previous table so a transient failure keeps the
// last-known price.
func (a *Aggregator) refreshUSDTable(ctx context.Context, class assetClass, symbols []string, chain quoteChain, force bool) {
	if len(symbols) == 0 || len(chain) == 0 {
		return
	}
	if !a.due(class, "", force) {
		return
	}
	began := a.now()

	type quote struct {
		symbol string
		price  float64
	}
	results := make(chan quote, len(symbols))
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			price, err := chain.quoteUSD(ctx, symbol)
			if err != nil {
				log.Printf("%s quote failed for %s: %v", class, symbol, err)
				return
			}
			results <- quote{symbol, price}
		}(symbol)
	}
	wg.Wait()
	close(results)

	fresh := make(map[string]float64)
	for q := range results {
		fresh[q.symbol] = q.price
	}
	if len(fresh) == 0 {
		log.Printf("%s refresh produced no quotes, keeping prior table", class)
		return
	}

	a.merge(class, began, func(s *RateSnapshot) {
		var table map[string]float64
		switch class {
		case classCrypto:
			table = maps.Clone(s.CryptoUSD)
		case classMetal:
			table = maps.Clone(s.MetalUSD)
		case classStock:
			table = maps.Clone(s.StockUSD)
		}
		if table == nil {
			table = make(map[string]float64, len(fresh))
		}
		maps.Copy(table, fresh)
		now := a.now()
		switch class {
		case classCrypto:
			s.CryptoUSD, s.LastCrypto = table, now
		case classMetal:
			s.MetalUSD, s.LastMetal = table, now
		case classStock:
			s.StockUSD, s.LastStock = table, now
		}
	})
}

// merge applies a class mutation to the snapshot under the write lock and
// persists the result.
//
// A refresh that began before the class was last updated has been superseded
// by a newer one (typically a forced refresh finishing first); its late
// results are discarded so they cannot clobber fresher data.
func (a *Aggregator) merge(class assetClass, began time.Time, apply func(*RateSnapshot)) {
	a.mu.Lock()
	if a.snap.lastUpdate(class).After(began) {
		a.mu.Unlock()
		log.Printf("%s refresh superseded, discarding late results", class)
		return
	}
	apply(&a.snap)
	snap := a.snap.clone()
	a.mu.Unlock()

	if a.cache != nil {
		if err := a.cache.Save(snap); err != nil {
			log.Printf("rate cache write failed (ignored): %v", err)
		}
	}
}
