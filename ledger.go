package vault

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the single owner of the wallet/transaction aggregate.
//
// Wallet balances are a derived invariant over the transaction history: every
// balance always equals the running sum of the applied effects of the
// transactions currently referencing the wallet. No other component writes
// balances; the accessors hand out copies.
//
// Transactions are kept in chronological order.
type Ledger struct {
	name         string
	wallets      map[uuid.UUID]*Wallet
	folders      map[uuid.UUID]Folder
	categories   map[uuid.UUID]Category
	transactions []Transaction
	rules        []RecurringRule
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		wallets:    make(map[uuid.UUID]*Wallet),
		folders:    make(map[uuid.UUID]Folder),
		categories: make(map[uuid.UUID]Category),
	}
}

// Name returns the ledger's name, set by the loading layer.
func (l *Ledger) Name() string { return l.name }

// SetName sets the ledger's name.
func (l *Ledger) SetName(name string) { l.name = name }

// --- wallets, folders, categories ---

// AddWallet registers a wallet. A wallet with a zero id gets a fresh one.
func (l *Ledger) AddWallet(w Wallet) (Wallet, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if _, exists := l.wallets[w.ID]; exists {
		return w, fmt.Errorf("wallet %s already exists", w.ID)
	}
	if w.Asset == "" {
		return w, fmt.Errorf("wallet %q has no asset code", w.Name)
	}
	l.wallets[w.ID] = &w
	return w, nil
}

// Wallet returns a copy of the wallet with this id.
func (l *Ledger) Wallet(id uuid.UUID) (Wallet, bool) {
	w, ok := l.wallets[id]
	if !ok {
		return Wallet{}, false
	}
	return *w, true
}

// WalletByName returns a copy of the first wallet with this display name.
func (l *Ledger) WalletByName(name string) (Wallet, bool) {
	for _, id := range l.sortedWalletIDs() {
		if l.wallets[id].Name == name {
			return *l.wallets[id], true
		}
	}
	return Wallet{}, false
}

// Wallets iterates over copies of all wallets, sorted by name.
func (l *Ledger) Wallets() iter.Seq[Wallet] {
	return func(yield func(Wallet) bool) {
		for _, id := range l.sortedWalletIDs() {
			if !yield(*l.wallets[id]) {
				return
			}
		}
	}
}

func (l *Ledger) sortedWalletIDs() []uuid.UUID {
	ids := slices.Collect(maps.Keys(l.wallets))
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		wa, wb := l.wallets[a], l.wallets[b]
		if wa.Name != wb.Name {
			return strings.Compare(wa.Name, wb.Name)
		}
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// DeleteWallet removes a wallet by explicit user action.
//
// Transactions referencing it are detached, not cascaded: their wallet
// reference is cleared while their display snapshots persist. Recurring rules
// linked to it are deactivated on the next firing pass; balances are not
// touched.
func (l *Ledger) DeleteWallet(id uuid.UUID) {
	if _, ok := l.wallets[id]; !ok {
		return
	}
	delete(l.wallets, id)
	for i := range l.transactions {
		if l.transactions[i].Wallet == id {
			l.transactions[i].Wallet = uuid.Nil
		}
		if l.transactions[i].TransferWallet == id {
			l.transactions[i].TransferWallet = uuid.Nil
		}
	}
}

// AddFolder registers a folder.
func (l *Ledger) AddFolder(f Folder) Folder {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	l.folders[f.ID] = f
	return f
}

// Folders iterates over all folders sorted by name.
func (l *Ledger) Folders() iter.Seq[Folder] {
	return func(yield func(Folder) bool) {
		ids := slices.Collect(maps.Keys(l.folders))
		slices.SortFunc(ids, func(a, b uuid.UUID) int {
			return strings.Compare(l.folders[a].Name, l.folders[b].Name)
		})
		for _, id := range ids {
			if !yield(l.folders[id]) {
				return
			}
		}
	}
}

// DeleteFolder removes a folder. Its wallets are detached, never deleted.
func (l *Ledger) DeleteFolder(id uuid.UUID) {
	delete(l.folders, id)
	for _, w := range l.wallets {
		if w.Folder == id {
			w.Folder = uuid.Nil
		}
	}
}

// AddCategory registers a category.
func (l *Ledger) AddCategory(c Category) Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	l.categories[c.ID] = c
	return c
}

// Category returns the category with this id.
func (l *Ledger) Category(id uuid.UUID) (Category, bool) {
	c, ok := l.categories[id]
	return c, ok
}

// --- transactions ---

// AddTransaction validates and records a transaction, applying exactly one
// balance effect based on its type. The wallet display snapshots are captured
// from the live wallets at this point.
func (l *Ledger) AddTransaction(tx Transaction) (Transaction, error) {
	tx, err := tx.Validate()
	if err != nil {
		return tx, err
	}
	l.refreshSnapshots(&tx)
	l.applyEffect(tx, +1, false)
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return tx, nil
}

// EditTransaction replaces a recorded transaction with an updated version.
//
// Balances follow a two-phase reverse-then-apply: the original effect is
// reversed using the originally captured amounts/type/wallets, then the new
// effect is applied. Both phases run even when nothing changed, so repeated
// no-op edits never drift a balance.
func (l *Ledger) EditTransaction(updated Transaction) (Transaction, error) {
	i := slices.IndexFunc(l.transactions, func(t Transaction) bool { return t.ID == updated.ID })
	if i < 0 {
		return updated, fmt.Errorf("transaction %s not found", updated.ID)
	}
	updated, err := updated.Validate()
	if err != nil {
		return updated, err
	}

	original := l.transactions[i]
	if original.Wallet != uuid.Nil {
		l.applyEffect(original, -1, false)
	}
	l.refreshSnapshots(&updated)
	if updated.Wallet != uuid.Nil {
		l.applyEffect(updated, +1, false)
	}
	l.transactions[i] = updated
	l.stableSort()
	return updated, nil
}

// DeleteTransaction reverses the transaction's effect and removes its record.
//
// If the wallet reference was cleared by a prior wallet deletion, the wallet
// is resolved from the display snapshot (name + asset code) instead, so the
// inverse effect still lands on a re-created or renamed-back wallet.
func (l *Ledger) DeleteTransaction(id uuid.UUID) error {
	i := slices.IndexFunc(l.transactions, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	l.applyEffect(l.transactions[i], -1, true)
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return nil
}

// Transaction returns the recorded transaction with this id.
func (l *Ledger) Transaction(id uuid.UUID) (Transaction, bool) {
	i := slices.IndexFunc(l.transactions, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Transactions returns an iterator over transactions in chronological order.
// With filters, a transaction is yielded if any filter accepts it.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByWallet returns a predicate that filters transactions touching a wallet.
func ByWallet(id uuid.UUID) func(Transaction) bool {
	return func(tx Transaction) bool {
		return tx.Wallet == id || tx.TransferWallet == id
	}
}

// ByType returns a predicate that filters transactions by type.
func ByType(t TxType) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Type == t }
}

// refreshSnapshots re-captures wallet display snapshots from the live
// wallets, leaving stale snapshots intact for missing wallets.
func (l *Ledger) refreshSnapshots(tx *Transaction) {
	if w, ok := l.wallets[tx.Wallet]; ok {
		tx.snapshotWallet(*w)
	}
	if tx.Type == Transfer {
		if w, ok := l.wallets[tx.TransferWallet]; ok {
			tx.snapshotTransferWallet(*w)
		}
	}
}

// applyEffect applies (sign=+1) or reverses (sign=-1) the balance effect of a
// transaction. A wallet that cannot be resolved is a silent no-op for that
// side, never an error.
func (l *Ledger) applyEffect(tx Transaction, sign int64, snapshotFallback bool) {
	k := decimal.NewFromInt(sign)
	switch tx.Type {
	case Expense:
		l.adjust(tx.Wallet, tx.WalletName, tx.Asset, tx.Amount.Mul(k).Neg(), snapshotFallback)
	case Income:
		l.adjust(tx.Wallet, tx.WalletName, tx.Asset, tx.Amount.Mul(k), snapshotFallback)
	case Transfer:
		l.adjust(tx.Wallet, tx.WalletName, tx.Asset, tx.Amount.Mul(k).Neg(), snapshotFallback)
		l.adjustByKind(tx.TransferWallet, tx.TransferWalletName, tx.TransferWalletKind, tx.transferCredit().Mul(k), snapshotFallback)
	}
}

// adjust moves a wallet balance by delta. The wallet is resolved by id, or,
// when allowed, from the snapshot (name + asset code) as a fallback.
func (l *Ledger) adjust(id uuid.UUID, name, asset string, delta decimal.Decimal, snapshotFallback bool) {
	if w, ok := l.wallets[id]; ok {
		w.Balance = w.Balance.Add(delta)
		return
	}
	if !snapshotFallback || name == "" {
		return
	}
	for _, wid := range l.sortedWalletIDs() {
		w := l.wallets[wid]
		if w.Name == name && w.Asset == asset {
			w.Balance = w.Balance.Add(delta)
			return
		}
	}
}

// adjustByKind is the destination-side variant of adjust: the destination's
// asset code is not snapshotted, so the fallback matches name + kind.
func (l *Ledger) adjustByKind(id uuid.UUID, name string, kind AssetKind, delta decimal.Decimal, snapshotFallback bool) {
	if w, ok := l.wallets[id]; ok {
		w.Balance = w.Balance.Add(delta)
		return
	}
	if !snapshotFallback || name == "" {
		return
	}
	for _, wid := range l.sortedWalletIDs() {
		w := l.wallets[wid]
		if w.Name == name && w.Kind == kind {
			w.Balance = w.Balance.Add(delta)
			return
		}
	}
}

// Recompute rebuilds every wallet balance from scratch by replaying the
// transaction history. Used to verify, or restore, the balance invariant.
func (l *Ledger) Recompute() {
	for _, w := range l.wallets {
		w.Balance = decimal.Zero
	}
	for _, tx := range l.transactions {
		l.applyEffect(tx, +1, false)
	}
}

// stableSort sorts the ledger by transaction date. The sort is stable, so
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// --- recurring rules ---

// AddRule registers a recurring rule.
func (l *Ledger) AddRule(r RecurringRule) RecurringRule {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	l.rules = append(l.rules, r)
	return r
}

// Rule returns the rule with this id.
func (l *Ledger) Rule(id uuid.UUID) (RecurringRule, bool) {
	i := slices.IndexFunc(l.rules, func(r RecurringRule) bool { return r.ID == id })
	if i < 0 {
		return RecurringRule{}, false
	}
	return l.rules[i], true
}

// Rules iterates over all recurring rules in registration order.
func (l *Ledger) Rules() iter.Seq[RecurringRule] {
	return func(yield func(RecurringRule) bool) {
		for _, r := range l.rules {
			if !yield(r) {
				return
			}
		}
	}
}

// ReactivateRule re-enables a deactivated rule once the user has fixed its
// wallet reference. It fails while the rule would immediately deactivate
// again.
func (l *Ledger) ReactivateRule(id uuid.UUID) error {
	i := slices.IndexFunc(l.rules, func(r RecurringRule) bool { return r.ID == id })
	if i < 0 {
		return fmt.Errorf("rule %s not found", id)
	}
	r := &l.rules[i]
	if r.Type == Transfer {
		return fmt.Errorf("rule %q is a transfer rule, transfers cannot recur", r.Title)
	}
	if _, ok := l.wallets[r.Wallet]; !ok {
		return fmt.Errorf("rule %q still has no wallet", r.Title)
	}
	r.Active = true
	return nil
}

// RunRecurring fires every active rule whose next run is due, generating
// transactions dated at each scheduled occurrence up to now.
//
// Invoked once per app foreground/refresh cycle. Each rule generates at most
// maxGeneratedPerPass transactions per pass, so catch-up after a long absence
// stays bounded; a capped rule resumes on the next pass. Invalid rules
// (transfer-typed, or wallet deleted) are deactivated rather than skipped so
// the user sees their state. One bad rule never blocks the others.
func (l *Ledger) RunRecurring(now date.Date) (generated int) {
	for i := range l.rules {
		r := &l.rules[i]
		if !r.Active {
			continue
		}
		if r.Type == Transfer {
			log.Printf("recurring rule %q is a transfer, deactivating", r.Title)
			r.Active = false
			continue
		}
		w, ok := l.wallets[r.Wallet]
		if !ok {
			log.Printf("recurring rule %q lost its wallet, deactivating", r.Title)
			r.Active = false
			continue
		}
		// The rule currency follows the wallet's asset code.
		r.Asset = w.Asset

		count := 0
		for r.due(now) && count < maxGeneratedPerPass {
			tx := NewTransaction(r.Type, r.Amount, r.NextRun, *w)
			tx.Note = r.Title
			tx.Category = r.Category
			l.applyEffect(tx, +1, false)
			l.transactions = append(l.transactions, tx)

			next := r.step()
			if !next.After(r.NextRun) {
				// A schedule that does not advance would loop forever.
				log.Printf("recurring rule %q does not advance, deactivating", r.Title)
				r.Active = false
				break
			}
			r.NextRun = next
			count++
		}
		generated += count
	}
	if generated > 0 {
		l.stableSort()
	}
	return generated
}
