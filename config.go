package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Settings is the user configuration of the vault. The zero value is fully
// usable: every field has a working default.
type Settings struct {
	// BaseCurrency is the display currency of totals and summaries.
	BaseCurrency string `mapstructure:"base_currency"`
	// VaultFile is the path of the JSONL vault file.
	VaultFile string `mapstructure:"vault_file"`
	// RateCacheFile is the path of the persisted rate snapshot.
	RateCacheFile string `mapstructure:"rate_cache_file"`
	// EODHDAPIKey enables the last-resort equity provider.
	EODHDAPIKey string `mapstructure:"eodhd_api_key"`

	// Refresh TTL overrides; zero keeps the built-in default.
	FXTTLHours       int `mapstructure:"fx_ttl_hours"`
	CryptoTTLMinutes int `mapstructure:"crypto_ttl_minutes"`
	MetalTTLHours    int `mapstructure:"metal_ttl_hours"`
	StockTTLHours    int `mapstructure:"stock_ttl_hours"`
}

func (s Settings) ttlOr(hours int, def time.Duration) time.Duration {
	if hours <= 0 {
		return def
	}
	return time.Duration(hours) * time.Hour
}

func (s Settings) ttlOrMinutes(minutes int, def time.Duration) time.Duration {
	if minutes <= 0 {
		return def
	}
	return time.Duration(minutes) * time.Minute
}

// Base returns the configured base currency, USD by default.
func (s Settings) Base() string {
	if s.BaseCurrency == "" {
		return "USD"
	}
	return s.BaseCurrency
}

// Vault returns the configured vault file path.
func (s Settings) Vault() string {
	if s.VaultFile == "" {
		return filepath.Join(configDir(), "vault.jsonl")
	}
	return s.VaultFile
}

// RateCache returns the configured rate cache path.
func (s Settings) RateCache() string {
	if s.RateCacheFile == "" {
		return filepath.Join(configDir(), "rates.json")
	}
	return s.RateCacheFile
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "av")
	}
	return "."
}

// LoadSettings reads the configuration from a yaml file and the environment.
// An explicit path must exist; the default search path may not, in which case
// built-in defaults apply. Environment variables use the AV_ prefix, e.g.
// AV_BASE_CURRENCY=EUR.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("AV")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}
