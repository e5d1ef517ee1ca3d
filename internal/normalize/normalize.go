// Package normalize coerces raw ERP export fields into canonical typed values.
//
// Export tooling emits everything as text: booleans as "True"/"Yes"/"1",
// quantities with thousands separators, dates in whichever format the report
// template happened to use. Normalization is the single choke point where an
// unknown shape becomes a known value or Absent. Malformed input never
// aborts a load, it degrades to Absent plus a diagnostic.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the target type for a coercion.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Warning records a single field that could not be parsed cleanly.
// Field defaults were applied and the load continued.
type Warning struct {
	Source string // source id the row came from
	Row    int    // 1-based row number within the source
	Field  string // column name
	Kind   Kind
	Raw    string // offending raw value
}

// dateLayouts are the accepted date text formats, tried in order. The ERP
// exports mix locale slash-dates and ISO, with and without a time component.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// String trims surrounding whitespace. ok is false for blank input; callers
// substitute "" (never a null) when a string field is absent.
func String(raw string) (s string, ok bool) {
	s = strings.TrimSpace(raw)
	return s, s != ""
}

// Bool recognizes the truthy and falsy spellings seen in exports,
// case-insensitively. Blank is false. Anything unrecognized is also false,
// with ok=false so the caller can record a coercion warning.
func Bool(raw string) (v bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "y":
		return true, true
	case "false", "no", "0", "n", "":
		return false, true
	}
	return false, false
}

// Number parses a numeric field after stripping thousands separators,
// currency symbols, and whitespace. Blank or unparseable input returns
// ok=false (Absent); the caller applies the field-specific default,
// typically 0.
func Number(raw string) (v float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	// Accounting exports wrap negatives in parens.
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = "-" + s[1:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Date parses a date field against the accepted layouts. Blank or
// unparseable input returns ok=false (Absent). The returned time is
// truncated to midnight local so day comparisons are stable.
func Date(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}
