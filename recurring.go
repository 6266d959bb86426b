package vault

import (
	"fmt"
	"strings"

	"github.com/Viktor879879/ArgentumVault-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is a typed string identifying the cadence of a recurring rule.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ParseFrequency parses a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(s) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// maxGeneratedPerPass bounds the catch-up cost of a single firing pass for one
// rule after a long absence.
const maxGeneratedPerPass = 120

// RecurringRule generates expense or income transactions on a calendar
// schedule. Transfer rules are invalid and self-deactivate on the next firing
// pass, as does a rule whose wallet has been deleted.
type RecurringRule struct {
	ID        uuid.UUID
	Title     string
	Amount    decimal.Decimal
	Asset     string // kept in sync with the wallet's asset code on firing
	Type      TxType // expense or income only
	Frequency Frequency
	Interval  int // multiplier on the frequency step, minimum 1
	NextRun   date.Date
	Active    bool
	Category  uuid.UUID
	Wallet    uuid.UUID
}

// NewRecurringRule creates an active rule starting at the given date.
func NewRecurringRule(title string, t TxType, amount decimal.Decimal, freq Frequency, interval int, start date.Date, wallet Wallet) RecurringRule {
	if interval < 1 {
		interval = 1
	}
	return RecurringRule{
		ID:        uuid.New(),
		Title:     title,
		Amount:    amount,
		Asset:     wallet.Asset,
		Type:      t,
		Frequency: freq,
		Interval:  interval,
		NextRun:   start,
		Active:    true,
		Wallet:    wallet.ID,
	}
}

// step returns the rule's NextRun advanced by one calendar step.
//
// The monthly step uses calendar arithmetic with end-of-month clamping, not a
// fixed duration, so month lengths are respected. The result is always
// strictly after NextRun.
func (r RecurringRule) step() date.Date {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	switch r.Frequency {
	case Weekly:
		return r.NextRun.Add(7 * interval)
	case Monthly:
		return r.NextRun.AddMonths(interval)
	default:
		return r.NextRun.Add(interval)
	}
}

// due reports whether the rule should fire on or before now.
func (r RecurringRule) due(now date.Date) bool {
	return r.Active && !r.NextRun.After(now)
}

// MarshalJSON implements the json.Marshaler interface for RecurringRule.
func (r RecurringRule) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recordRule)
	w.Append("id", r.ID)
	w.Append("title", r.Title)
	w.Append("amount", r.Amount)
	w.Append("asset", r.Asset)
	w.Append("type", r.Type)
	w.Append("frequency", r.Frequency)
	w.Append("interval", r.Interval)
	w.Append("nextRun", r.NextRun)
	w.Append("active", r.Active)
	if r.Category != uuid.Nil {
		w.Append("category", r.Category)
	}
	if r.Wallet != uuid.Nil {
		w.Append("wallet", r.Wallet)
	}
	return w.MarshalJSON()
}
