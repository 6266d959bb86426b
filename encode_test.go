package vault

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
)

// buildSampleVault creates a vault with every record type.
func buildSampleVault(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	folder := l.AddFolder(Folder{Name: "Banking"})
	groceries := l.AddCategory(Category{Name: "Groceries"})

	cash, err := l.AddWallet(NewWallet("Cash", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	l.wallets[cash.ID].Folder = folder.ID
	l.wallets[cash.ID].Color = "#00aa55"
	coins, err := l.AddWallet(NewWallet("Coins", Crypto, "BTC"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.AddTransaction(NewTransaction(Income, dec("1000"), date.MustParse("2026-01-10"), cash)); err != nil {
		t.Fatal(err)
	}
	tx := NewTransaction(Expense, dec("12.50"), date.MustParse("2026-01-12"), cash)
	tx.Category = groceries.ID
	tx.Note = "market"
	if _, err := l.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	transfer := NewTransaction(Transfer, dec("100"), date.MustParse("2026-01-15"), cash)
	transfer.TransferWallet = coins.ID
	transfer.TransferAmount = dec("0.002")
	if _, err := l.AddTransaction(transfer); err != nil {
		t.Fatal(err)
	}

	l.AddRule(NewRecurringRule("Rent", Expense, dec("800"), Monthly, 1, date.MustParse("2026-02-01"), cash))
	return l
}

func TestVault_EncodeDecodeRoundTrip(t *testing.T) {
	l := buildSampleVault(t)

	var buf bytes.Buffer
	if err := EncodeVault(&buf, l); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeVault(&buf)
	if err != nil {
		t.Fatal(err)
	}

	// Wallets survive with identity, snapshot balance and grouping.
	for w := range l.Wallets() {
		g, ok := got.Wallet(w.ID)
		if !ok {
			t.Fatalf("wallet %s lost in round trip", w.Name)
		}
		if g.Name != w.Name || g.Kind != w.Kind || g.Asset != w.Asset ||
			!g.Balance.Equal(w.Balance) || g.Color != w.Color || g.Folder != w.Folder {
			t.Errorf("wallet %s mismatch:\n got %+v\nwant %+v", w.Name, g, w)
		}
	}

	// Transactions survive in order with their display snapshots.
	var want, have []Transaction
	for _, tx := range l.Transactions() {
		want = append(want, tx)
	}
	for _, tx := range got.Transactions() {
		have = append(have, tx)
	}
	if len(have) != len(want) {
		t.Fatalf("decoded %d transactions, want %d", len(have), len(want))
	}
	for i := range want {
		if !have[i].Equal(want[i]) {
			t.Errorf("transaction %d mismatch:\n got %+v\nwant %+v", i, have[i], want[i])
		}
		if have[i].WalletName != want[i].WalletName {
			t.Errorf("transaction %d lost wallet snapshot", i)
		}
	}

	// Rules survive entirely.
	for r := range l.Rules() {
		g, ok := got.Rule(r.ID)
		if !ok {
			t.Fatalf("rule %q lost in round trip", r.Title)
		}
		if g.Title != r.Title || !g.Amount.Equal(r.Amount) || g.Frequency != r.Frequency ||
			g.Interval != r.Interval || g.NextRun != r.NextRun || g.Active != r.Active || g.Wallet != r.Wallet {
			t.Errorf("rule %q mismatch:\n got %+v\nwant %+v", r.Title, g, r)
		}
	}

	// And the replayed history still yields the stored balances.
	got.Recompute()
	for w := range l.Wallets() {
		g, _ := got.Wallet(w.ID)
		if !g.Balance.Equal(w.Balance) {
			t.Errorf("wallet %s: replayed balance %s != stored %s", w.Name, g.Balance, w.Balance)
		}
	}
}

func TestDecodeVault_SkipsBlankLinesAndInterleaving(t *testing.T) {
	id := uuid.New()
	input := strings.Join([]string{
		`{"record":"transaction","id":"` + uuid.NewString() + `","type":"income","amount":10,"asset":"EUR","date":"2026-01-02","wallet":"` + id.String() + `"}`,
		``,
		`   `,
		`{"record":"wallet","id":"` + id.String() + `","name":"Cash","kind":"fiat","asset":"EUR","balance":10}`,
	}, "\n")

	l, err := DecodeVault(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Wallet(id); !ok {
		t.Error("wallet defined after its transaction was not decoded")
	}
	count := 0
	for range l.Transactions() {
		count++
	}
	if count != 1 {
		t.Errorf("decoded %d transactions, want 1", count)
	}
}

func TestDecodeVault_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"record":`},
		{"unknown record", `{"record":"teapot"}`},
		{"duplicate wallet", strings.Join([]string{
			`{"record":"wallet","id":"6f1c0f70-9f3e-4d5b-8a27-3fca8a4a2a10","name":"A","kind":"fiat","asset":"EUR","balance":0}`,
			`{"record":"wallet","id":"6f1c0f70-9f3e-4d5b-8a27-3fca8a4a2a10","name":"B","kind":"fiat","asset":"EUR","balance":0}`,
		}, "\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeVault(strings.NewReader(tc.input)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestVaultFile_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/household.jsonl"

	// A missing file yields a fresh empty vault named after the file.
	l, err := ReadVaultFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name() != "household" {
		t.Errorf("vault name = %q, want household", l.Name())
	}

	w, err := l.AddWallet(NewWallet("Cash", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddTransaction(NewTransaction(Income, dec("10"), date.Today(), w)); err != nil {
		t.Fatal(err)
	}
	if err := WriteVaultFile(path, l); err != nil {
		t.Fatal(err)
	}

	got, err := ReadVaultFile(path)
	if err != nil {
		t.Fatal(err)
	}
	gw, ok := got.Wallet(w.ID)
	if !ok {
		t.Fatal("wallet lost in file round trip")
	}
	if !gw.Balance.Equal(dec("10")) {
		t.Errorf("balance = %s, want 10", gw.Balance)
	}
}
