package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type editTxCmd struct {
	id     string
	amount string
	on     string
	note   string
	wallet string
}

func (*editTxCmd) Name() string     { return "edit-tx" }
func (*editTxCmd) Synopsis() string { return "edit a recorded transaction" }
func (*editTxCmd) Usage() string {
	return `av edit-tx -id <id> [-a <amount>] [-d <date>] [-n <note>] [-w <wallet>]

  Edits a recorded transaction. The original balance effect is reversed and
  the updated one applied, so wallet balances stay consistent with history.
  Only the given flags change; the rest of the transaction is preserved.
`
}

func (c *editTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id (see 'av tx').")
	f.StringVar(&c.amount, "a", "", "New amount.")
	f.StringVar(&c.on, "d", "", "New date.")
	f.StringVar(&c.note, "n", "", "New note.")
	f.StringVar(&c.wallet, "w", "", "Move the transaction to this wallet.")
}

func (c *editTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id flag is required.")
		return subcommands.ExitUsageError
	}
	id, err := uuid.Parse(c.id)
	if err != nil {
		return fail(fmt.Errorf("invalid transaction id %q: %w", c.id, err))
	}

	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}
	tx, ok := ledger.Transaction(id)
	if !ok {
		return fail(fmt.Errorf("transaction %s not found", id))
	}

	if c.amount != "" {
		if tx.Amount, err = decimal.NewFromString(c.amount); err != nil {
			return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
		}
	}
	if c.on != "" {
		if tx.Date, err = date.Parse(c.on); err != nil {
			return fail(err)
		}
	}
	if c.note != "" {
		tx.Note = c.note
	}
	if c.wallet != "" {
		w, ok := ledger.WalletByName(c.wallet)
		if !ok {
			return fail(fmt.Errorf("no wallet named %q", c.wallet))
		}
		tx.Wallet = w.ID
		tx.Asset = w.Asset
	}

	if tx, err = ledger.EditTransaction(tx); err != nil {
		return fail(err)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Edited transaction %s: %s %s %s on %s\n", tx.ID, tx.Type, tx.Amount, tx.Asset, tx.Date)
	return subcommands.ExitSuccess
}

type deleteTxCmd struct {
	id string
}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction, reversing its effect" }
func (*deleteTxCmd) Usage() string {
	return `av delete-tx -id <id>

  Deletes a transaction and reverses its balance effect. If its wallet was
  deleted in the meantime, a wallet matching the recorded name and asset is
  adjusted instead, when one exists.
`
}

func (c *deleteTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id (see 'av tx').")
}

func (c *deleteTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id flag is required.")
		return subcommands.ExitUsageError
	}
	id, err := uuid.Parse(c.id)
	if err != nil {
		return fail(fmt.Errorf("invalid transaction id %q: %w", c.id, err))
	}

	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}
	if err := ledger.DeleteTransaction(id); err != nil {
		return fail(err)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted transaction %s\n", id)
	return subcommands.ExitSuccess
}
