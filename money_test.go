package vault

import (
	"encoding/json"
	"testing"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := M(10.5, "EUR")
	b := M(2, "EUR")

	if got := a.Add(b); !got.Equal(M(12.5, "EUR")) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !got.Equal(M(8.5, "EUR")) {
		t.Errorf("Sub = %v", got)
	}
	// The empty currency is weak: it adopts the other operand's.
	if got := a.Add(M(1, "")); got.Currency() != "EUR" {
		t.Errorf("weak currency lost: %q", got.Currency())
	}
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on currency mismatch")
		}
	}()
	M(1, "EUR").Add(M(1, "USD"))
}

func TestMoney_SignedString(t *testing.T) {
	if got := M(0, "EUR").SignedString(); got != "-" {
		t.Errorf("zero = %q, want -", got)
	}
	if got := M(5, "USD").SignedString(); got[0] != '+' {
		t.Errorf("positive value misses sign: %q", got)
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(M(12.345, "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	// EUR has two fraction digits: the amount is rounded on write.
	want := `{"currency":"EUR","amount":12.35}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}
