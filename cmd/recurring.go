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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type recurringCmd struct {
	reactivate string
}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "list recurring rules" }
func (*recurringCmd) Usage() string {
	return `av recurring [-reactivate <id>]

  Lists recurring rules with their schedule and state. A rule deactivated
  because its wallet was deleted can be re-enabled with -reactivate once the
  wallet exists again.
`
}

func (c *recurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.reactivate, "reactivate", "", "Rule id to re-enable.")
}

func (c *recurringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSettings()
	if err != nil {
		return fail(err)
	}
	ledger, err := openVault(s)
	if err != nil {
		return fail(err)
	}

	if c.reactivate != "" {
		id, err := uuid.Parse(c.reactivate)
		if err != nil {
			return fail(fmt.Errorf("invalid rule id %q: %w", c.reactivate, err))
		}
		if err := ledger.ReactivateRule(id); err != nil {
			return fail(err)
		}
		if err := saveVault(s, ledger); err != nil {
			return fail(err)
		}
		fmt.Printf("Reactivated rule %s\n", id)
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Recurring rules\n\n")
	fmt.Fprintf(&b, "| Title | Type | Amount | Asset | Schedule | Next run | Active | ID |\n")
	fmt.Fprintf(&b, "|---|---|--:|---|---|---|---|---|\n")
	n := 0
	for r := range ledger.Rules() {
		schedule := string(r.Frequency)
		if r.Interval > 1 {
			schedule = fmt.Sprintf("every %d %ss", r.Interval, strings.TrimSuffix(string(r.Frequency), "ly"))
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %v | %s |\n",
			r.Title, r.Type, r.Amount, r.Asset, schedule, r.NextRun, r.Active, r.ID)
		n++
	}
	if n == 0 {
		fmt.Println("no recurring rules, create one with 'av add-recurring'")
		return subcommands.ExitSuccess
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type addRecurringCmd struct {
	title    string
	kind     string
	amount   string
	wallet   string
	freq     string
	interval int
	start    string
}

func (*addRecurringCmd) Name() string     { return "add-recurring" }
func (*addRecurringCmd) Synopsis() string { return "create a recurring expense or income rule" }
func (*addRecurringCmd) Usage() string {
	return `av add-recurring -title <title> -type <expense|income> -a <amount> -w <wallet> -freq <daily|weekly|monthly> [-every <n>] [-start <date>]

  Creates a rule that generates a transaction on a calendar schedule, starting
  at the given date. Rules fire during 'av update'. Monthly schedules use real
  calendar months: a rule anchored on the 31st fires on the last day of
  shorter months.

Usage Examples:
$ av add-recurring -title "Rent" -type expense -a 1200 -w "Checking" -freq monthly
$ av add-recurring -title "Salary" -type income -a 4000 -w "Checking" -freq monthly -start 2026-09-01
`
}

func (c *addRecurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "Title of the rule, used as the note of generated transactions.")
	f.StringVar(&c.kind, "type", "expense", "Rule type: expense or income.")
	f.StringVar(&c.amount, "a", "", "Amount of each generated transaction.")
	f.StringVar(&c.wallet, "w", "", "Wallet the rule applies to.")
	f.StringVar(&c.freq, "freq", "monthly", "Frequency: daily, weekly or monthly.")
	f.IntVar(&c.interval, "every", 1, "Multiplier on the frequency (e.g. -freq weekly -every 2).")
	f.StringVar(&c.start, "start", "", "First scheduled date (defaults to today).")
}

func (c *addRecurringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.title == "" || c.amount == "" || c.wallet == "" {
		fmt.Fprintln(os.Stderr, "Error: -title, -a and -w flags are required.")
		return subcommands.ExitUsageError
	}
	kind, err := vault.ParseTxType(c.kind)
	if err != nil {
		return fail(err)
	}
	if kind == vault.Transfer {
		return fail(fmt.Errorf("transfers cannot recur"))
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}
	freq, err := vault.ParseFrequency(c.freq)
	if err != nil {
		return fail(err)
	}
	start := date.Today()
	if c.start != "" {
		if start, err = date.Parse(c.start); err != nil {
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

	r := vault.NewRecurringRule(c.title, kind, amount, freq, c.interval, start, w)
	r = ledger.AddRule(r)
	if err := saveVault(s, ledger); err != nil {
		return fail(err)
	}
	fmt.Printf("Created rule %q, first run %s\n", r.Title, r.NextRun)
	return subcommands.ExitSuccess
}
