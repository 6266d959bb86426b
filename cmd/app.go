// Package cmd implements the CLI application to manage a multi-asset vault.
package cmd

import (
	"flag"
	"fmt"
	"os"

	vault "github.com/Viktor879879/ArgentumVault-sub000"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&walletsCmd{}, "wallets")
	c.Register(&addWalletCmd{}, "wallets")
	c.Register(&deleteWalletCmd{}, "wallets")

	c.Register(&entryCmd{kind: vault.Expense}, "transactions")
	c.Register(&entryCmd{kind: vault.Income}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&editTxCmd{}, "transactions")
	c.Register(&deleteTxCmd{}, "transactions")

	c.Register(&recurringCmd{}, "recurring")
	c.Register(&addRecurringCmd{}, "recurring")

	c.Register(&updateCmd{}, "rates")
	c.Register(&summaryCmd{}, "rates")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (yaml)")
var vaultFile = flag.String("vault-file", "", "Path to the vault file (JSONL format), overrides the configuration")
var baseCurrency = flag.String("base", "", "Display currency for totals, overrides the configuration")

// loadSettings reads the configuration and applies the global flag overrides.
func loadSettings() (vault.Settings, error) {
	s, err := vault.LoadSettings(*configFile)
	if err != nil {
		return s, err
	}
	if *vaultFile != "" {
		s.VaultFile = *vaultFile
	}
	if *baseCurrency != "" {
		s.BaseCurrency = *baseCurrency
	}
	return s, nil
}

// openVault is the central function to load the vault file.
func openVault(s vault.Settings) (*vault.Ledger, error) {
	return vault.ReadVaultFile(s.Vault())
}

// saveVault persists the vault back to its file.
func saveVault(s vault.Settings, l *vault.Ledger) error {
	return vault.WriteVaultFile(s.Vault(), l)
}

// newAggregator wires the rate aggregator with its persistent cache.
func newAggregator(s vault.Settings) *vault.Aggregator {
	return vault.NewAggregator(vault.NewCacheFile(s.RateCache()), s)
}

// heldAssets projects the vault wallets into the asset list the aggregator
// refreshes against.
func heldAssets(l *vault.Ledger) []vault.WalletAsset {
	var assets []vault.WalletAsset
	for w := range l.Wallets() {
		assets = append(assets, vault.WalletAsset{Kind: w.Kind, Asset: w.Asset})
	}
	return assets
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer is unavailable (e.g. output is piped).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints an error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
