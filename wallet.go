package vault

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetKind is a typed string identifying the asset class of a wallet.
type AssetKind string

const (
	Fiat   AssetKind = "fiat"
	Crypto AssetKind = "crypto"
	Metal  AssetKind = "metal"
	Stock  AssetKind = "stock"
)

// ParseAssetKind parses a string into an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch AssetKind(strings.ToLower(s)) {
	case Fiat:
		return Fiat, nil
	case Crypto:
		return Crypto, nil
	case Metal:
		return Metal, nil
	case Stock:
		return Stock, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", s)
	}
}

// Wallet is a user account holding a single asset.
//
// Balance is a derived value: it always equals the running sum of the applied
// effects of all transactions currently referencing the wallet. It is mutated
// exclusively by the Ledger.
type Wallet struct {
	ID      uuid.UUID
	Name    string
	Kind    AssetKind
	Asset   string // ISO currency code, or ticker symbol for crypto/metal/stock
	Balance decimal.Decimal
	Color   string    // optional display tag
	Folder  uuid.UUID // optional folder reference; zero when unfiled
}

// NewWallet creates a wallet with a fresh identity and a zero balance.
func NewWallet(name string, kind AssetKind, asset string) Wallet {
	return Wallet{
		ID:    uuid.New(),
		Name:  name,
		Kind:  kind,
		Asset: strings.ToUpper(asset),
	}
}

func (w Wallet) String() string {
	return fmt.Sprintf("%s (%s %s)", w.Name, w.Kind, w.Asset)
}

// MarshalJSON implements the json.Marshaler interface for Wallet.
func (w Wallet) MarshalJSON() ([]byte, error) {
	var jw jsonObjectWriter
	jw.Append("record", recordWallet)
	jw.Append("id", w.ID)
	jw.Append("name", w.Name)
	jw.Append("kind", w.Kind)
	jw.Append("asset", w.Asset)
	jw.Append("balance", w.Balance)
	jw.Optional("color", w.Color)
	if w.Folder != uuid.Nil {
		jw.Append("folder", w.Folder)
	}
	return jw.MarshalJSON()
}

// Folder groups wallets for display. A folder references its wallets by
// identity only: deleting a folder detaches its wallets, never deletes them.
type Folder struct {
	ID   uuid.UUID
	Name string
}

// MarshalJSON implements the json.Marshaler interface for Folder.
func (f Folder) MarshalJSON() ([]byte, error) {
	var jw jsonObjectWriter
	jw.Append("record", recordFolder)
	jw.Append("id", f.ID)
	jw.Append("name", f.Name)
	return jw.MarshalJSON()
}

// Category labels transactions and recurring rules.
type Category struct {
	ID   uuid.UUID
	Name string
}

// MarshalJSON implements the json.Marshaler interface for Category.
func (c Category) MarshalJSON() ([]byte, error) {
	var jw jsonObjectWriter
	jw.Append("record", recordCategory)
	jw.Append("id", c.ID)
	jw.Append("name", c.Name)
	return jw.MarshalJSON()
}

// WalletAsset is the projection of a wallet the rate aggregator needs to
// decide which symbols to fetch. Assets with zero wallets are never fetched.
type WalletAsset struct {
	Kind  AssetKind
	Asset string
}
