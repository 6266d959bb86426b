package vault

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// This file contains code to persist the vault in a single JSONL file, one
// record per line, human-readable and git-friendly. Each line carries a
// "record" discriminator naming its type; records of different types may be
// freely interleaved.

func init() {
	// decimal values are written as plain json numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// recordType discriminates the JSONL record kinds.
type recordType string

const (
	recordWallet      recordType = "wallet"
	recordFolder      recordType = "folder"
	recordCategory    recordType = "category"
	recordTransaction recordType = "transaction"
	recordRule        recordType = "rule"
)

// To parse a record line, we use a dedicated local struct with tag
// annotations per record kind.

type jwallet struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Kind    AssetKind       `json:"kind"`
	Asset   string          `json:"asset"`
	Balance decimal.Decimal `json:"balance"`
	Color   string          `json:"color"`
	Folder  uuid.UUID       `json:"folder"`
}

type jnamed struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type jtransaction struct {
	ID       uuid.UUID       `json:"id"`
	Type     TxType          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Asset    string          `json:"asset"`
	Date     date.Date       `json:"date"`
	Note     string          `json:"note"`
	Category uuid.UUID       `json:"category"`
	Photo    string          `json:"photo"`

	Wallet      uuid.UUID `json:"wallet"`
	WalletName  string    `json:"walletName"`
	WalletKind  AssetKind `json:"walletKind"`
	WalletColor string    `json:"walletColor"`

	TransferWallet      uuid.UUID       `json:"transferWallet"`
	TransferAmount      decimal.Decimal `json:"transferAmount"`
	TransferWalletName  string          `json:"transferWalletName"`
	TransferWalletKind  AssetKind       `json:"transferWalletKind"`
	TransferWalletColor string          `json:"transferWalletColor"`
}

type jrule struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Asset     string          `json:"asset"`
	Type      TxType          `json:"type"`
	Frequency Frequency       `json:"frequency"`
	Interval  int             `json:"interval"`
	NextRun   date.Date       `json:"nextRun"`
	Active    bool            `json:"active"`
	Category  uuid.UUID       `json:"category"`
	Wallet    uuid.UUID       `json:"wallet"`
}

// DecodeVault decodes a vault from a stream of JSONL data: one record per
// line, identified by its "record" property. Records may appear in any order;
// the returned ledger is sorted chronologically.
func DecodeVault(r io.Reader) (*Ledger, error) {
	l := NewLedger()
	scanner := bufio.NewScanner(r)

	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var identifier struct {
			Record recordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("parse error on line %d: not a correct json: %w", i, err)
		}

		var err error
		switch identifier.Record {
		case recordWallet:
			var jw jwallet
			if err = json.Unmarshal(line, &jw); err == nil {
				if _, exists := l.wallets[jw.ID]; exists {
					return nil, fmt.Errorf("parse error on line %d: wallet %s is already defined", i, jw.ID)
				}
				l.wallets[jw.ID] = &Wallet{
					ID:      jw.ID,
					Name:    jw.Name,
					Kind:    jw.Kind,
					Asset:   jw.Asset,
					Balance: jw.Balance,
					Color:   jw.Color,
					Folder:  jw.Folder,
				}
			}
		case recordFolder:
			var jn jnamed
			if err = json.Unmarshal(line, &jn); err == nil {
				l.folders[jn.ID] = Folder{ID: jn.ID, Name: jn.Name}
			}
		case recordCategory:
			var jn jnamed
			if err = json.Unmarshal(line, &jn); err == nil {
				l.categories[jn.ID] = Category{ID: jn.ID, Name: jn.Name}
			}
		case recordTransaction:
			var jt jtransaction
			if err = json.Unmarshal(line, &jt); err == nil {
				l.transactions = append(l.transactions, Transaction{
					ID:                  jt.ID,
					Type:                jt.Type,
					Amount:              jt.Amount,
					Asset:               jt.Asset,
					Date:                jt.Date,
					Note:                jt.Note,
					Category:            jt.Category,
					Photo:               jt.Photo,
					Wallet:              jt.Wallet,
					WalletName:          jt.WalletName,
					WalletKind:          jt.WalletKind,
					WalletColor:         jt.WalletColor,
					TransferWallet:      jt.TransferWallet,
					TransferAmount:      jt.TransferAmount,
					TransferWalletName:  jt.TransferWalletName,
					TransferWalletKind:  jt.TransferWalletKind,
					TransferWalletColor: jt.TransferWalletColor,
				})
			}
		case recordRule:
			var jr jrule
			if err = json.Unmarshal(line, &jr); err == nil {
				l.rules = append(l.rules, RecurringRule{
					ID:        jr.ID,
					Title:     jr.Title,
					Amount:    jr.Amount,
					Asset:     jr.Asset,
					Type:      jr.Type,
					Frequency: jr.Frequency,
					Interval:  jr.Interval,
					NextRun:   jr.NextRun,
					Active:    jr.Active,
					Category:  jr.Category,
					Wallet:    jr.Wallet,
				})
			}
		default:
			err = fmt.Errorf("unknown record type %q", identifier.Record)
		}
		if err != nil {
			return nil, fmt.Errorf("parse error on line %d: %w", i, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading vault: %w", err)
	}

	l.stableSort()
	return l, nil
}

// encodeRecord marshals a single record and writes it as one JSONL line.
func encodeRecord(w io.Writer, rec json.Marshaler) error {
	data, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// EncodeVault persists the whole vault to an io.Writer in JSONL format:
// folders, categories and wallets first so a reader can resolve references,
// then rules, then transactions in chronological order.
func EncodeVault(w io.Writer, l *Ledger) error {
	for f := range l.Folders() {
		if err := encodeRecord(w, f); err != nil {
			return err
		}
	}
	for _, c := range sortedCategories(l) {
		if err := encodeRecord(w, c); err != nil {
			return err
		}
	}
	for wal := range l.Wallets() {
		if err := encodeRecord(w, wal); err != nil {
			return err
		}
	}
	for r := range l.Rules() {
		if err := encodeRecord(w, r); err != nil {
			return err
		}
	}
	l.stableSort()
	for _, tx := range l.transactions {
		if err := encodeRecord(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// sortedCategories returns the categories sorted by name for a stable,
// diff-friendly encoding.
func sortedCategories(l *Ledger) []Category {
	out := make([]Category, 0, len(l.categories))
	for _, c := range l.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Category) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// ReadVaultFile loads a vault from a JSONL file. A missing file yields a
// fresh empty vault named after the file.
func ReadVaultFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l := NewLedger()
			l.SetName(vaultName(path))
			return l, nil
		}
		return nil, fmt.Errorf("cannot open vault file %q: %w", path, err)
	}
	defer f.Close()
	l, err := DecodeVault(f)
	if err != nil {
		return nil, err
	}
	l.SetName(vaultName(path))
	return l, nil
}

// WriteVaultFile persists a vault atomically: full write to a sibling temp
// file, then rename over the target.
func WriteVaultFile(path string, l *Ledger) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create vault file %q: %w", tmp, err)
	}
	if err := EncodeVault(f, l); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func vaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
