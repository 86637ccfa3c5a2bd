package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-10", "2024-01-10"},
		{"2024-01-10T14:30:00Z", "2024-01-10"},
		{"2024-01-10T14:30:00", "2024-01-10"},
		{"2024-01-10 14:30:00", "2024-01-10"},
		{"  2024-01-10  ", "2024-01-10"},
		{"10/01/2024", "2024-01-10"},
		{"2024/01/10", "2024-01-10"},
		{"", ""},
		{"not a date", ""},
		{"2024-1-5", ""},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	inputs := []string{"2024-01-10", "2024-01-10T14:30:00Z", "10/01/2024", "garbage", ""}
	for _, in := range inputs {
		once := NormalizeDate(in)
		if twice := NormalizeDate(once); twice != once {
			t.Errorf("NormalizeDate not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"100.50", "100.5"},
		{"100,50", "100.5"},
		{"1.234,56", "1234.56"},
		{"  42  ", "42"},
		{"", "0"},
		{"abc", "0"},
	}
	for _, c := range cases {
		want, _ := decimal.NewFromString(c.want)
		if got := ParseAmount(c.in); !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", c.in, got, want)
		}
	}
}

func TestValueFromJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`100.5`, "100.5"},
		{`"100,50"`, "100.5"},
		{`"250"`, "250"},
		{`null`, "0"},
		{`{}`, "0"},
	}
	for _, c := range cases {
		want, _ := decimal.NewFromString(c.want)
		if got := ValueFromJSON(json.RawMessage(c.in)); !got.Equal(want) {
			t.Errorf("ValueFromJSON(%s) = %s, want %s", c.in, got, want)
		}
	}
	if !ValueFromJSON(nil).Equal(decimal.Zero) {
		t.Errorf("ValueFromJSON(nil) should be zero")
	}
}
