package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	vault "github.com/Viktor879879/ArgentumVault-sub000"
	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// entryCmd is the shared implementation of the expense and income commands,
// which differ only by transaction type.
type entryCmd struct {
	kind   vault.TxType
	wallet string
	amount string
	on     string
	note   string
}

func (c *entryCmd) Name() string { return string(c.kind) }
func (c *entryCmd) Synopsis() string {
	return fmt.Sprintf("record an %s against a wallet", c.kind)
}
func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`av %s -w <wallet> -a <amount> [-d <date>] [-n <note>]

  Records an %s transaction. The amount is a non-negative magnitude in the
  wallet's own asset; the wallet balance adjusts immediately.

Usage Examples:
$ av %s -w "Cash" -a 12.50 -n "lunch"
`, c.kind, c.kind, c.kind)
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "Wallet name.")
	f.StringVar(&c.amount, "a", "", "Amount, a non-negative magnitude.")
	f.StringVar(&c.on, "d", "", "Date of the transaction (defaults to today).")
	f.StringVar(&c.note, "n", "", "Optional note.")
}

func (c *entryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.wallet == "" || c.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -w and -a flags are required.")
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}
	on := date.Today()
	if c.on != "" {
		if on, err = date.Parse(c.on); err != nil {
			return fail(err)
		}
	}

	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}
	w, ok := ledger.WalletByName(c.wallet)
	if !ok {
		return fail(fmt.Errorf("no wallet named %q", c.wallet))
	}

	tx := vault.NewTransaction(c.kind, amount, on, w)
	tx.Note = c.note
	if tx, err = ledger.AddTransaction(tx); err != nil {
		return fail(err)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	w, _ = ledger.Wallet(w.ID)
	fmt.Printf("Recorded %s %s %s on %s (balance now %s)\n", c.kind, tx.Amount, tx.Asset, tx.Date, w.Balance)
	return subcommands.ExitSuccess
}

type transferCmd struct {
	from   string
	to     string
	amount string
	credit string
	on     string
	note   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move funds between two wallets" }
func (*transferCmd) Usage() string {
	return `av transfer -from <wallet> -to <wallet> -a <amount> [-ta <credited>] [-d <date>] [-n <note>]

  Records a double-entry transfer: the source wallet is debited by the
  amount, the destination credited. For cross-asset transfers, -ta sets the
  credited amount in the destination's own asset; it defaults to the debited
  amount for same-asset transfers.

Usage Examples:
$ av transfer -from "Checking" -to "Savings" -a 500
$ av transfer -from "EUR Cash" -to "USD Cash" -a 100 -ta 108.20
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source wallet name.")
	f.StringVar(&c.to, "to", "", "Destination wallet name.")
	f.StringVar(&c.amount, "a", "", "Amount debited from the source, in its asset.")
	f.StringVar(&c.credit, "ta", "", "Amount credited to the destination, in its asset (defaults to -a).")
	f.StringVar(&c.on, "d", "", "Date of the transfer (defaults to today).")
	f.StringVar(&c.note, "n", "", "Optional note.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -from, -to and -a flags are required.")
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}
	var credit decimal.Decimal
	if c.credit != "" {
		if credit, err = decimal.NewFromString(c.credit); err != nil {
			return fail(fmt.Errorf("invalid credited amount %q: %w", c.credit, err))
		}
	}
	on := date.Today()
	if c.on != "" {
		if on, err = date.Parse(c.on); err != nil {
			return fail(err)
		}
	}

	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}
	from, ok := ledger.WalletByName(c.from)
	if !ok {
		return fail(fmt.Errorf("no wallet named %q", c.from))
	}
	to, ok := ledger.WalletByName(c.to)
	if !ok {
		return fail(fmt.Errorf("no wallet named %q", c.to))
	}

	tx := vault.NewTransaction(vault.Transfer, amount, on, from)
	tx.Note = c.note
	tx.TransferWallet = to.ID
	tx.TransferAmount = credit
	if tx, err = ledger.AddTransaction(tx); err != nil {
		return fail(err)
	}
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Transferred %s %s from %q to %q on %s\n", tx.Amount, tx.Asset, from.Name, to.Name, tx.Date)
	return subcommands.ExitSuccess
}

type txCmd struct {
	wallet string
	kind   string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the vault" }
func (*txCmd) Usage() string {
	return `av tx [-w <wallet>] [-type <expense|income|transfer>] [-head <n>] [-tail <n>]

  Lists transactions in chronological order, with options for filtering and
  limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "Show only transactions touching this wallet.")
	f.StringVar(&c.kind, "type", "", "Show only transactions of this type.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
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

	// Both conditions must hold, so they compose into a single filter.
	var preds []func(vault.Transaction) bool
	if c.wallet != "" {
		w, ok := ledger.WalletByName(c.wallet)
		if !ok {
			return fail(fmt.Errorf("no wallet named %q", c.wallet))
		}
		preds = append(preds, vault.ByWallet(w.ID))
	}
	if c.kind != "" {
		kind, err := vault.ParseTxType(c.kind)
		if err != nil {
			return fail(err)
		}
		preds = append(preds, vault.ByType(kind))
	}
	var filters []func(vault.Transaction) bool
	if len(preds) > 0 {
		filters = append(filters, func(tx vault.Transaction) bool {
			for _, p := range preds {
				if !p(tx) {
					return false
				}
			}
			return true
		})
	}

	var transactions []vault.Transaction
	for _, tx := range ledger.Transactions(filters...) {
		transactions = append(transactions, tx)
	}
	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	fmt.Fprintf(&b, "| Date | Type | Amount | Asset | Wallet | Note | ID |\n")
	fmt.Fprintf(&b, "|---|---|--:|---|---|---|---|\n")
	for _, tx := range transactions {
		wallet := tx.WalletName
		if tx.Type == vault.Transfer {
			wallet = fmt.Sprintf("%s → %s", tx.WalletName, tx.TransferWalletName)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Type, tx.Amount, tx.Asset, wallet, tx.Note, tx.ID)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
