package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	vault "github.com/Viktor879879/ArgentumVault-sub000"
	"github.com/google/subcommands"
)

type walletsCmd struct{}

func (*walletsCmd) Name() string     { return "wallets" }
func (*walletsCmd) Synopsis() string { return "list all wallets and their balances" }
func (*walletsCmd) Usage() string {
	return `av wallets

  Lists all wallets with their asset, balance and folder.
`
}
func (*walletsCmd) SetFlags(f *flag.FlagSet) {}

func (c *walletsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Wallets\n\n")
	fmt.Fprintf(&b, "| Wallet | Kind | Asset | Balance |\n")
	fmt.Fprintf(&b, "|---|---|---|--:|\n")
	n := 0
	for w := range ledger.Wallets() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", w.Name, w.Kind, w.Asset, w.Balance)
		n++
	}
	if n == 0 {
		fmt.Println("no wallets yet, create one with 'av add-wallet'")
		return subcommands.ExitSuccess
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type addWalletCmd struct {
	name  string
	kind  string
	asset string
	color string
}

func (*addWalletCmd) Name() string     { return "add-wallet" }
func (*addWalletCmd) Synopsis() string { return "create a new wallet" }
func (*addWalletCmd) Usage() string {
	return `av add-wallet -name <name> -kind <fiat|crypto|metal|stock> -asset <code>

  Creates a wallet holding a single asset, starting with a zero balance.

Usage Examples:
$ av add-wallet -name "Cash" -kind fiat -asset EUR
$ av add-wallet -name "Cold storage" -kind crypto -asset BTC
`
}

func (c *addWalletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the wallet.")
	f.StringVar(&c.kind, "kind", "fiat", "Asset kind: fiat, crypto, metal or stock.")
	f.StringVar(&c.asset, "asset", "", "Currency code or ticker symbol held by the wallet.")
	f.StringVar(&c.color, "color", "", "Optional display color tag.")
}

func (c *addWalletCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.asset == "" {
		fmt.Fprintln(os.Stderr, "Error: -name and -asset flags are required.")
		return subcommands.ExitUsageError
	}
	kind, err := vault.ParseAssetKind(c.kind)
	if err != nil {
		return fail(err)
	}

	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}

	w := vault.NewWallet(c.name, kind, c.asset)
	w.Color = c.color
	if _, err := ledger.AddWallet(w); err != nil {
		return fail(err)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Created wallet %s\n", w)
	return subcommands.ExitSuccess
}

type deleteWalletCmd struct {
	name string
}

func (*deleteWalletCmd) Name() string     { return "delete-wallet" }
func (*deleteWalletCmd) Synopsis() string { return "delete a wallet, keeping its history" }
func (*deleteWalletCmd) Usage() string {
	return `av delete-wallet -name <name>

  Deletes a wallet. Its transactions are kept and keep rendering with the
  name and color the wallet had; recurring rules pointing at it deactivate
  on the next update.
`
}

func (c *deleteWalletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the wallet to delete.")
}

func (c *deleteWalletCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name flag is required.")
		return subcommands.ExitUsageError
	}
	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}
	w, ok := ledger.WalletByName(c.name)
	if !ok {
		return fail(fmt.Errorf("no wallet named %q", c.name))
	}
	ledger.DeleteWallet(w.ID)
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted wallet %s\n", w)
	return subcommands.ExitSuccess
}
