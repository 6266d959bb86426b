package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CacheFile persists the rate snapshot between runs as a single JSON object.
// Timestamps are pointers so a class that was never fetched round-trips as an
// absent field, not as the zero time.
type CacheFile struct {
	path string
}

func NewCacheFile(path string) *CacheFile { return &CacheFile{path: path} }

type cacheRecord struct {
	FXBase          string             `json:"fxBase,omitempty"`
	FXRates         map[string]float64 `json:"fxRates,omitempty"`
	CryptoUSDPrices map[string]float64 `json:"cryptoUSDPrices,omitempty"`
	MetalUSDPrices  map[string]float64 `json:"metalUSDPrices,omitempty"`
	StockUSDPrices  map[string]float64 `json:"stockUSDPrices,omitempty"`

	LastFXUpdate     *time.Time `json:"lastFXUpdate,omitempty"`
	LastCryptoUpdate *time.Time `json:"lastCryptoUpdate,omitempty"`
	LastMetalUpdate  *time.Time `json:"lastMetalUpdate,omitempty"`
	LastStockUpdate  *time.Time `json:"lastStockUpdate,omitempty"`
}

func stamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func unstamp(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Load reads the persisted snapshot. A missing file is not an error: it
// returns an empty snapshot, the normal first-run state.
func (c *CacheFile) Load() (RateSnapshot, error) {
	body, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RateSnapshot{}, nil
		}
		return RateSnapshot{}, fmt.Errorf("cannot read rate cache %q: %w", c.path, err)
	}
	var rec cacheRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return RateSnapshot{}, fmt.Errorf("corrupt rate cache %q: %w", c.path, err)
	}
	return RateSnapshot{
		Base:       rec.FXBase,
		FXRates:    rec.FXRates,
		CryptoUSD:  rec.CryptoUSDPrices,
		MetalUSD:   rec.MetalUSDPrices,
		StockUSD:   rec.StockUSDPrices,
		LastFX:     unstamp(rec.LastFXUpdate),
		LastCrypto: unstamp(rec.LastCryptoUpdate),
		LastMetal:  unstamp(rec.LastMetalUpdate),
		LastStock:  unstamp(rec.LastStockUpdate),
	}, nil
}

// Save writes the snapshot atomically: full write to a sibling temp file,
// then rename over the target, so a crash mid-write cannot corrupt the cache.
func (c *CacheFile) Save(snap RateSnapshot) error {
	rec := cacheRecord{
		FXBase:           snap.Base,
		FXRates:          snap.FXRates,
		CryptoUSDPrices:  snap.CryptoUSD,
		MetalUSDPrices:   snap.MetalUSD,
		StockUSDPrices:   snap.StockUSD,
		LastFXUpdate:     stamp(snap.LastFX),
		LastCryptoUpdate: stamp(snap.LastCrypto),
		LastMetalUpdate:  stamp(snap.LastMetal),
		LastStockUpdate:  stamp(snap.LastStock),
	}
	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
