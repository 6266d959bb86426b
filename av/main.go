package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/Viktor879879/ArgentumVault-sub000/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. It exits early when
// invoked by the shell's completion hook, before any flag parsing.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"wallets":       {},
		"add-wallet":    {Flags: map[string]complete.Predictor{"kind": predict.Set{"fiat", "crypto", "metal", "stock"}}},
		"delete-wallet": {},
		"expense":       {},
		"income":        {},
		"transfer":      {},
		"tx":            {},
		"edit-tx":       {},
		"delete-tx":     {},
		"recurring":     {},
		"add-recurring": {Flags: map[string]complete.Predictor{"freq": predict.Set{"daily", "weekly", "monthly"}}},
		"update":        {},
		"summary":       {},
		"topic":         {},
	},
	Flags: map[string]complete.Predictor{
		"config":     predict.Files("*.yaml"),
		"vault-file": predict.Files("*.jsonl"),
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
