package normalize

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"JOB-100", "JOB-100", true},
		{"  padded  ", "padded", true},
		{"", "", false},
		{"   ", "", false},
		{"\tACME\n", "ACME", true},
	}

	for _, tt := range tests {
		got, ok := String(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("String(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStringIdempotent(t *testing.T) {
	// Normalizing an already-normalized value must not change it.
	for _, raw := range []string{"JOB-100", "  JOB-100  ", "a b c"} {
		once, _ := String(raw)
		twice, _ := String(once)
		if once != twice {
			t.Errorf("String not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"Yes", true, true},
		{"y", true, true},
		{"1", true, true},
		{"false", false, true},
		{"No", false, true},
		{"n", false, true},
		{"0", false, true},
		{"", false, true},
		{"  ", false, true},
		{"maybe", false, false},
		{"2", false, false},
	}

	for _, tt := range tests {
		got, ok := Bool(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Bool(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"42", 42, true},
		{"42.5", 42.5, true},
		{"1,250", 1250, true},
		{"1,250,000.75", 1250000.75, true},
		{"$99.95", 99.95, true},
		{"(15)", -15, true},
		{"-3", -3, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"12ab", 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("Number(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Number(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   string // formatted 2006-01-02, "" means !ok
		wantOK bool
	}{
		{"06/15/2026", "2026-06-15", true},
		{"6/5/2026", "2026-06-05", true},
		{"2026-06-15", "2026-06-15", true},
		{"06/15/2026 14:30", "2026-06-15", true},
		{"2026-06-15 14:30:00", "2026-06-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"13/45/2026", "", false},
	}

	for _, tt := range tests {
		got, ok := Date(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("Date(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("Date(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
		}
		// Dates normalize to local midnight so comparisons are day-granular.
		h, m, s := got.Clock()
		if h != 0 || m != 0 || s != 0 {
			t.Errorf("Date(%q) has non-midnight clock %02d:%02d:%02d", tt.raw, h, m, s)
		}
	}
}

func TestDateIdempotent(t *testing.T) {
	first, ok := Date("06/15/2026 14:30")
	if !ok {
		t.Fatal("parse failed")
	}
	second, ok := Date(first.Format("2006-01-02"))
	if !ok {
		t.Fatal("re-parse failed")
	}
	if !first.Equal(second) {
		t.Errorf("Date not idempotent: %v then %v", first, second)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindString, "string"},
		{KindBool, "bool"},
		{KindNumber, "number"},
		{KindDate, "date"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDateLocalMidnight(t *testing.T) {
	got, ok := Date("01/02/2026")
	if !ok {
		t.Fatal("parse failed")
	}
	want := time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Date(01/02/2026) = %v, want %v", got, want)
	}
}
