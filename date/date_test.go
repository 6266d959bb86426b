package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-31", want: New(2025, time.January, 31)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "not-a-date", wantErr: true},
		{in: "2025-13-01", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAddMonths_Clamping(t *testing.T) {
	testCases := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"regular step", "2025-04-15", 1, "2025-05-15"},
		{"jan 31 to feb", "2025-01-31", 1, "2025-02-28"},
		{"jan 31 to feb leap", "2024-01-31", 1, "2024-02-29"},
		{"may 31 to june", "2025-05-31", 1, "2025-06-30"},
		{"across year end", "2025-11-30", 3, "2026-02-28"},
		{"multiple months keep day", "2025-01-10", 5, "2025-06-10"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParse(tc.start).AddMonths(tc.months)
			if got.String() != tc.want {
				t.Errorf("%s.AddMonths(%d) = %s, want %s", tc.start, tc.months, got, tc.want)
			}
		})
	}
}

func TestAddMonths_StrictlyIncreasing(t *testing.T) {
	// A monthly schedule anchored at month end must still move forward
	// every step, even through short months.
	on := MustParse("2025-01-31")
	for i := 0; i < 24; i++ {
		next := on.AddMonths(1)
		if !next.After(on) {
			t.Fatalf("AddMonths(1) from %s gave %s, not after", on, next)
		}
		on = next
	}
}

func TestAdd_Days(t *testing.T) {
	if got := MustParse("2025-02-28").Add(1); got.String() != "2025-03-01" {
		t.Errorf("Add(1) = %s, want 2025-03-01", got)
	}
	if got := MustParse("2025-01-01").Add(-1); got.String() != "2024-12-31" {
		t.Errorf("Add(-1) = %s, want 2024-12-31", got)
	}
}

func TestHistory_LatestAndAsOf(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-03-03"), 3.0)
	h.Append(MustParse("2025-03-01"), 1.0)
	h.Append(MustParse("2025-03-02"), 2.0)
	// Overwrite keeps latest data.
	h.Append(MustParse("2025-03-03"), 3.5)

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	day, v := h.Latest()
	if day.String() != "2025-03-03" || v != 3.5 {
		t.Errorf("Latest() = %s %v, want 2025-03-03 3.5", day, v)
	}
	if v, ok := h.ValueAsOf(MustParse("2025-03-05")); !ok || v != 3.5 {
		t.Errorf("ValueAsOf(after) = %v %v, want 3.5 true", v, ok)
	}
	if v, ok := h.ValueAsOf(MustParse("2025-03-02")); !ok || v != 2.0 {
		t.Errorf("ValueAsOf(exact) = %v %v, want 2 true", v, ok)
	}
	if _, ok := h.ValueAsOf(MustParse("2025-02-28")); ok {
		t.Error("ValueAsOf(before first) should not be found")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := MustParse("2025-06-30")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
