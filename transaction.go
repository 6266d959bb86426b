package vault

import (
	"fmt"
	"strings"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType is a typed string identifying the kind of a transaction.
type TxType string

const (
	Expense  TxType = "expense"
	Income   TxType = "income"
	Transfer TxType = "transfer"
)

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToLower(s)) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	case Transfer:
		return Transfer, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is a single ledger entry against a wallet.
//
// Besides the live wallet references, a transaction carries immutable
// snapshots of the wallet's name, kind and color taken when it was created or
// last edited. History keeps rendering correctly after a wallet is renamed or
// deleted; the snapshots are never updated retroactively.
type Transaction struct {
	ID       uuid.UUID
	Type     TxType
	Amount   decimal.Decimal // non-negative magnitude
	Asset    string          // currency/asset code of Amount
	Date     date.Date
	Note     string
	Category uuid.UUID // optional
	Photo    string    // opaque reference to an attachment, handled elsewhere

	Wallet      uuid.UUID // source wallet; zero once detached
	WalletName  string
	WalletKind  AssetKind
	WalletColor string

	// Transfer double entry: the destination wallet is credited with
	// TransferAmount expressed in its own currency. When zero it defaults to
	// Amount (same-asset transfer); once saved it is never recomputed.
	TransferWallet      uuid.UUID
	TransferAmount      decimal.Decimal
	TransferWalletName  string
	TransferWalletKind  AssetKind
	TransferWalletColor string
}

// NewTransaction creates a transaction against a wallet, capturing the
// wallet's display snapshot.
func NewTransaction(t TxType, amount decimal.Decimal, on date.Date, w Wallet) Transaction {
	tx := Transaction{
		ID:     uuid.New(),
		Type:   t,
		Amount: amount,
		Asset:  w.Asset,
		Date:   on,
	}
	tx.snapshotWallet(w)
	return tx
}

// snapshotWallet records the source wallet reference and its display snapshot.
func (t *Transaction) snapshotWallet(w Wallet) {
	t.Wallet = w.ID
	t.WalletName = w.Name
	t.WalletKind = w.Kind
	t.WalletColor = w.Color
}

// snapshotTransferWallet records the destination wallet reference and its
// display snapshot.
func (t *Transaction) snapshotTransferWallet(w Wallet) {
	t.TransferWallet = w.ID
	t.TransferWalletName = w.Name
	t.TransferWalletKind = w.Kind
	t.TransferWalletColor = w.Color
}

// transferCredit returns the amount credited to the destination wallet:
// TransferAmount when set, Amount otherwise.
func (t Transaction) transferCredit() decimal.Decimal {
	if t.TransferAmount.IsZero() {
		return t.Amount
	}
	return t.TransferAmount
}

// When returns the date of the transaction.
func (t Transaction) When() date.Date { return t.Date }

// Equal reports whether two transactions carry the same data.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Asset == o.Asset &&
		t.Date == o.Date &&
		t.Note == o.Note &&
		t.Category == o.Category &&
		t.Wallet == o.Wallet &&
		t.TransferWallet == o.TransferWallet &&
		t.TransferAmount.Equal(o.TransferAmount)
}

// Validate checks the transaction for correctness and applies quick fixes
// where applicable (missing id, missing date).
func (t Transaction) Validate() (Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date == (date.Date{}) {
		t.Date = date.Today()
	}
	if t.Amount.IsNegative() {
		return t, fmt.Errorf("transaction amount must be a non-negative magnitude, got %s", t.Amount)
	}
	switch t.Type {
	case Expense, Income:
	case Transfer:
		if t.TransferAmount.IsNegative() {
			return t, fmt.Errorf("transfer amount must be a non-negative magnitude, got %s", t.TransferAmount)
		}
	default:
		return t, fmt.Errorf("unknown transaction type %q", t.Type)
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordTransaction)
	w.Append("id", t.ID)
	w.Append("type", t.Type)
	w.Append("amount", t.Amount)
	w.Append("asset", t.Asset)
	w.Append("date", t.Date)
	w.Optional("note", t.Note)
	if t.Category != uuid.Nil {
		w.Append("category", t.Category)
	}
	w.Optional("photo", t.Photo)
	if t.Wallet != uuid.Nil {
		w.Append("wallet", t.Wallet)
	}
	w.Optional("walletName", t.WalletName)
	w.Optional("walletKind", t.WalletKind)
	w.Optional("walletColor", t.WalletColor)
	if t.Type == Transfer {
		if t.TransferWallet != uuid.Nil {
			w.Append("transferWallet", t.TransferWallet)
		}
		if !t.TransferAmount.IsZero() {
			w.Append("transferAmount", t.TransferAmount)
		}
		w.Optional("transferWalletName", t.TransferWalletName)
		w.Optional("transferWalletKind", t.TransferWalletKind)
		w.Optional("transferWalletColor", t.TransferWalletColor)
	}
	return w.MarshalJSON()
}
