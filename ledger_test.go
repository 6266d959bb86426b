package vault

import (
	"testing"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestLedger returns a ledger with one EUR fiat wallet.
func newTestLedger(t *testing.T) (*Ledger, Wallet) {
	t.Helper()
	l := NewLedger()
	w, err := l.AddWallet(NewWallet("Cash", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	return l, w
}

func balance(t *testing.T, l *Ledger, id uuid.UUID) decimal.Decimal {
	t.Helper()
	w, ok := l.Wallet(id)
	if !ok {
		t.Fatalf("wallet %s not found", id)
	}
	return w.Balance
}

func TestAddTransaction_BalanceEffects(t *testing.T) {
	l, w := newTestLedger(t)

	tests := []struct {
		kind   TxType
		amount string
		want   string
	}{
		{Income, "100", "100"},
		{Expense, "12.50", "87.5"},
		{Income, "0.50", "88"},
	}
	for _, tc := range tests {
		if _, err := l.AddTransaction(NewTransaction(tc.kind, dec(tc.amount), date.Today(), w)); err != nil {
			t.Fatal(err)
		}
		if got := balance(t, l, w.ID); !got.Equal(dec(tc.want)) {
			t.Errorf("after %s %s: balance = %s, want %s", tc.kind, tc.amount, got, tc.want)
		}
	}
}

func TestAddTransaction_RejectsNegativeAmount(t *testing.T) {
	l, w := newTestLedger(t)
	if _, err := l.AddTransaction(NewTransaction(Expense, dec("-5"), date.Today(), w)); err == nil {
		t.Fatal("expected error for negative amount")
	}
	if got := balance(t, l, w.ID); !got.IsZero() {
		t.Errorf("rejected transaction changed the balance to %s", got)
	}
}

func TestTransfer_SameAssetConservation(t *testing.T) {
	l, from := newTestLedger(t)
	to, err := l.AddWallet(NewWallet("Savings", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddTransaction(NewTransaction(Income, dec("1000"), date.Today(), from)); err != nil {
		t.Fatal(err)
	}

	tx := NewTransaction(Transfer, dec("400"), date.Today(), from)
	tx.TransferWallet = to.ID
	if _, err := l.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}

	if got := balance(t, l, from.ID); !got.Equal(dec("600")) {
		t.Errorf("source balance = %s, want 600", got)
	}
	// Same-asset transfer: the destination credit defaults to the debit.
	if got := balance(t, l, to.ID); !got.Equal(dec("400")) {
		t.Errorf("destination balance = %s, want 400", got)
	}
}

func TestTransfer_CrossAssetAmounts(t *testing.T) {
	l, from := newTestLedger(t)
	to, err := l.AddWallet(NewWallet("USD Cash", Fiat, "USD"))
	if err != nil {
		t.Fatal(err)
	}

	tx := NewTransaction(Transfer, dec("100"), date.Today(), from)
	tx.TransferWallet = to.ID
	tx.TransferAmount = dec("108.20")
	if _, err := l.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}

	if got := balance(t, l, from.ID); !got.Equal(dec("-100")) {
		t.Errorf("source balance = %s, want -100", got)
	}
	if got := balance(t, l, to.ID); !got.Equal(dec("108.20")) {
		t.Errorf("destination balance = %s, want 108.20", got)
	}
}

func TestEditTransaction_ReverseThenApply(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Income, dec("100"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}

	// 100 -> 70 -> 130 -> back to 100: the balance tracks each edit exactly.
	for _, amount := range []string{"70", "130", "100"} {
		tx.Amount = dec(amount)
		if tx, err = l.EditTransaction(tx); err != nil {
			t.Fatal(err)
		}
		if got := balance(t, l, w.ID); !got.Equal(dec(amount)) {
			t.Errorf("after edit to %s: balance = %s", amount, got)
		}
	}
}

func TestEditTransaction_NoOpIsIdempotent(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Expense, dec("25"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if tx, err = l.EditTransaction(tx); err != nil {
			t.Fatal(err)
		}
	}
	if got := balance(t, l, w.ID); !got.Equal(dec("-25")) {
		t.Errorf("balance drifted to %s after repeated no-op edits", got)
	}
}

func TestEditTransaction_MoveToOtherWallet(t *testing.T) {
	l, w := newTestLedger(t)
	other, err := l.AddWallet(NewWallet("Wallet B", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	tx, err := l.AddTransaction(NewTransaction(Expense, dec("30"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}

	tx.Wallet = other.ID
	if _, err := l.EditTransaction(tx); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, l, w.ID); !got.IsZero() {
		t.Errorf("original wallet balance = %s, want 0", got)
	}
	if got := balance(t, l, other.ID); !got.Equal(dec("-30")) {
		t.Errorf("new wallet balance = %s, want -30", got)
	}
}

func TestEditTransaction_DetachedWalletSkipsReversal(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Expense, dec("10"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}
	l.DeleteWallet(w.ID)

	// Once detached, the edit targets a fresh wallet: no reversal is possible
	// on the deleted one, only the new effect applies.
	fresh, err := l.AddWallet(NewWallet("Fresh", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	tx, ok := l.Transaction(tx.ID)
	if !ok {
		t.Fatal("transaction lost after wallet deletion")
	}
	if tx.Wallet != uuid.Nil {
		t.Fatalf("transaction still references deleted wallet %s", tx.Wallet)
	}
	tx.Wallet = fresh.ID
	if _, err := l.EditTransaction(tx); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, l, fresh.ID); !got.Equal(dec("-10")) {
		t.Errorf("fresh wallet balance = %s, want -10", got)
	}
}

func TestDeleteTransaction_ReversesEffect(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Income, dec("55"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteTransaction(tx.ID); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, l, w.ID); !got.IsZero() {
		t.Errorf("balance = %s after delete, want 0", got)
	}
	if _, ok := l.Transaction(tx.ID); ok {
		t.Error("transaction still present after delete")
	}
}

func TestDeleteTransaction_SnapshotFallback(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Income, dec("80"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}
	l.DeleteWallet(w.ID)

	// Re-create a wallet with the same name and asset: deleting the orphaned
	// transaction resolves it by snapshot and lands the inverse effect there.
	again, err := l.AddWallet(NewWallet("Cash", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteTransaction(tx.ID); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, l, again.ID); !got.Equal(dec("-80")) {
		t.Errorf("re-created wallet balance = %s, want -80", got)
	}
}

func TestDeleteWallet_KeepsHistoryAndSnapshots(t *testing.T) {
	l, w := newTestLedger(t)
	tx, err := l.AddTransaction(NewTransaction(Expense, dec("5"), date.Today(), w))
	if err != nil {
		t.Fatal(err)
	}
	l.DeleteWallet(w.ID)

	got, ok := l.Transaction(tx.ID)
	if !ok {
		t.Fatal("transaction deleted with its wallet")
	}
	if got.Wallet != uuid.Nil {
		t.Errorf("wallet reference not cleared: %s", got.Wallet)
	}
	if got.WalletName != "Cash" || got.WalletKind != Fiat {
		t.Errorf("display snapshot lost: name=%q kind=%q", got.WalletName, got.WalletKind)
	}
}

func TestRecompute_RestoresInvariant(t *testing.T) {
	l, w := newTestLedger(t)
	for _, amount := range []string{"10", "20", "30"} {
		if _, err := l.AddTransaction(NewTransaction(Income, dec(amount), date.Today(), w)); err != nil {
			t.Fatal(err)
		}
	}
	// Corrupt the balance behind the ledger's back, then replay.
	l.wallets[w.ID].Balance = dec("9999")
	l.Recompute()
	if got := balance(t, l, w.ID); !got.Equal(dec("60")) {
		t.Errorf("recomputed balance = %s, want 60", got)
	}
}

func TestTransactions_FiltersAndOrder(t *testing.T) {
	l, w := newTestLedger(t)
	other, err := l.AddWallet(NewWallet("Other", Fiat, "EUR"))
	if err != nil {
		t.Fatal(err)
	}

	// Inserted out of order on purpose.
	for _, tc := range []struct {
		on     string
		kind   TxType
		wallet Wallet
	}{
		{"2026-03-01", Expense, w},
		{"2026-01-15", Income, w},
		{"2026-02-01", Expense, other},
	} {
		if _, err := l.AddTransaction(NewTransaction(tc.kind, dec("1"), date.MustParse(tc.on), tc.wallet)); err != nil {
			t.Fatal(err)
		}
	}

	var dates []string
	for _, tx := range l.Transactions() {
		dates = append(dates, tx.Date.String())
	}
	want := []string{"2026-01-15", "2026-02-01", "2026-03-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("chronological order broken: got %v", dates)
		}
	}

	count := 0
	for _, tx := range l.Transactions(ByWallet(other.ID)) {
		if tx.Wallet != other.ID {
			t.Errorf("filter leaked transaction for wallet %s", tx.Wallet)
		}
		count++
	}
	if count != 1 {
		t.Errorf("ByWallet matched %d transactions, want 1", count)
	}

	count = 0
	for range l.Transactions(ByType(Expense)) {
		count++
	}
	if count != 2 {
		t.Errorf("ByType matched %d transactions, want 2", count)
	}
}

func TestDeleteFolder_DetachesWallets(t *testing.T) {
	l, w := newTestLedger(t)
	f := l.AddFolder(Folder{Name: "Banking"})
	l.wallets[w.ID].Folder = f.ID

	l.DeleteFolder(f.ID)
	got, _ := l.Wallet(w.ID)
	if got.Folder != uuid.Nil {
		t.Errorf("wallet still filed under deleted folder %s", got.Folder)
	}
}
