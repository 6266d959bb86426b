package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	vault "github.com/Viktor879879/ArgentumVault-sub000"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	refresh bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show all wallets valued in the base currency" }
func (*summaryCmd) Usage() string {
	return `av summary [-refresh]

  Shows every wallet with its native balance and its value converted to the
  base currency, plus the grand total. Conversions use the cached rates;
  -refresh fetches stale rate classes first. Wallets that cannot be priced
  are listed but left out of the total.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Refresh stale rates before valuing.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}

	agg := newAggregator(s)
	if c.refresh {
		agg.RefreshAll(ctx, s.Base(), heldAssets(ledger), false)
	}
	conv := vault.NewConverter(agg.Snapshot())

	base := strings.ToUpper(s.Base())
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ledger.Name())
	fmt.Fprintf(&b, "| Wallet | Balance | Value (%s) |\n", base)
	fmt.Fprintf(&b, "|---|--:|--:|\n")
	for w := range ledger.Wallets() {
		value, err := conv.Convert(w.Balance, w.Asset, w.Kind, base)
		if err != nil {
			fmt.Fprintf(&b, "| %s | %s %s | n/a |\n", w.Name, w.Balance, w.Asset)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s %s | %s |\n", w.Name, w.Balance, w.Asset, vault.M(value, base))
	}

	total, omitted := conv.TotalIn(ledger, base)
	fmt.Fprintf(&b, "\n**Total: %s**\n", total)
	if len(omitted) > 0 {
		names := make([]string, 0, len(omitted))
		for _, w := range omitted {
			names = append(names, w.Name)
		}
		fmt.Fprintf(&b, "\nNot valued (no rate yet, run 'av update'): %s\n", strings.Join(names, ", "))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
