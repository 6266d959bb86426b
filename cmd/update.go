package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/subcommands"
)

type updateCmd struct {
	force bool
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "fire due recurring rules and refresh exchange rates"
}
func (*updateCmd) Usage() string {
	return `av update [-force]

  Runs the periodic maintenance pass: fires every recurring rule that is due,
  then refreshes exchange rates and asset prices for the wallets actually
  held. Rate classes refresh only when stale; -force refreshes them all.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Refresh all rates regardless of their age.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}

	generated := ledger.RunRecurring(date.Today())
	if generated > 0 {
		fmt.Printf("Generated %d recurring transaction(s)\n", generated)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}

	agg := newAggregator(s)
	agg.RefreshAll(ctx, s.Base(), heldAssets(ledger), c.force)
	snap := agg.Snapshot()
	fmt.Printf("Rates: %d fx, %d crypto, %d metal, %d stock (base %s)\n",
		len(snap.FXRates), len(snap.CryptoUSD), len(snap.MetalUSD), len(snap.StockUSD), snap.Base)
	return subcommands.ExitSuccess
}
