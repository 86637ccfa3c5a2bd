package ledger

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISO is the canonical date layout used everywhere in the client.
// Dates in this form compare correctly as plain strings.
const ISO = "2006-01-02"

// fallbackLayouts are tried in order for inputs that are not already
// canonical. The backend usually sends ISO datetimes; the slash layouts
// cover values that passed through the web UI's locale formatting.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// NormalizeDate coerces a heterogeneous date representation to canonical
// YYYY-MM-DD. Unparseable or empty input yields "". Never panics, and is
// idempotent: normalizing an already-canonical string returns it unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) >= 10 && isCanonicalPrefix(s[:10]) {
		return s[:10]
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISO)
		}
	}
	return ""
}

func isCanonicalPrefix(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Today returns the current date in canonical form.
func Today() string {
	return time.Now().Format(ISO)
}

// ParseAmount coerces a loosely typed numeric string to a decimal. Both
// "." and "," are accepted as decimal separators; "1.234,56" is read as
// Brazilian thousands formatting. Anything unparseable yields zero so
// totals never see NaN-like garbage.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		// comma is the decimal separator; dots are thousands
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ValueFromJSON reads a money value out of a raw JSON token, which the
// backend emits as either a number or a quoted string.
func ValueFromJSON(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}
