package ledger

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// SortField selects the column FilterAndSort orders by.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByValue    SortField = "value"
	SortByCategory SortField = "category"
	SortByBank     SortField = "bank"
	SortByType     SortField = "type"
	SortByOrigin   SortField = "origin"
)

// PaidFilter is the tri-state paid filter.
type PaidFilter string

const (
	PaidAny PaidFilter = ""
	PaidYes PaidFilter = "yes"
	PaidNo  PaidFilter = "no"
)

// Filters is the ephemeral view state applied to the unified item list.
// Zero values mean "not filtering on this".
type Filters struct {
	Search     string
	DateStart  string
	DateEnd    string
	CategoryID int
	BankID     int
	Type       ItemType
	Paid       PaidFilter
	MinValue   *decimal.Decimal
	MaxValue   *decimal.Decimal
	SortField  SortField
	SortAsc    bool
}

// FilterAndSort derives the visible item list: text search across the
// denormalized fields, equality and range filters, then a stable sort so
// equal-keyed rows never visibly reorder between renders.
func FilterAndSort(items []Item, f Filters) []Item {
	query := Fold(f.Search)
	var out []Item
	for _, it := range items {
		if query != "" && !matchesSearch(it, query) {
			continue
		}
		// Dateless items fall outside any bounded range.
		if (f.DateStart != "" || f.DateEnd != "") && it.Date == "" {
			continue
		}
		if f.DateStart != "" && it.Date < f.DateStart {
			continue
		}
		if f.DateEnd != "" && it.Date > f.DateEnd {
			continue
		}
		if f.CategoryID != 0 && it.CategoryID != f.CategoryID {
			continue
		}
		if f.BankID != 0 && it.BankID != f.BankID {
			continue
		}
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.Paid == PaidYes && !it.Paid() {
			continue
		}
		if f.Paid == PaidNo && it.Paid() {
			continue
		}
		if f.MinValue != nil && it.Value.Cmp(*f.MinValue) < 0 {
			continue
		}
		if f.MaxValue != nil && it.Value.Cmp(*f.MaxValue) > 0 {
			continue
		}
		out = append(out, it)
	}
	sortItems(out, f.SortField, f.SortAsc)
	return out
}

// matchesSearch keeps an item when the folded query is a substring of any
// haystack field. The paid-state tokens match the pt-BR labels the web UI
// renders, so searching "pago" behaves the same here.
func matchesSearch(it Item, query string) bool {
	haystacks := []string{
		it.Description,
		it.CategoryName(),
		it.BankName(),
		it.Value.String(),
		string(it.Type),
		string(it.Origin),
		paidToken(it),
		it.Date,
	}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		if strings.Contains(Fold(h), query) {
			return true
		}
	}
	return false
}

func paidToken(it Item) string {
	if it.Type != Expense {
		return ""
	}
	if it.Paid() {
		return "pago"
	}
	return "não pago"
}

func sortItems(items []Item, field SortField, asc bool) {
	// Three-way comparison so ties report "not less" in both directions;
	// negating a boolean less would reorder equal rows under SliceStable.
	sort.SliceStable(items, func(i, j int) bool {
		c := compareItems(items[i], items[j], field)
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareItems(a, b Item, field SortField) int {
	switch field {
	case SortByValue:
		return a.Value.Cmp(b.Value)
	case SortByCategory:
		return strings.Compare(Fold(a.CategoryName()), Fold(b.CategoryName()))
	case SortByBank:
		return strings.Compare(Fold(a.BankName()), Fold(b.BankName()))
	case SortByType:
		return strings.Compare(string(a.Type), string(b.Type))
	case SortByOrigin:
		return strings.Compare(string(a.Origin), string(b.Origin))
	default:
		return strings.Compare(a.Date, b.Date)
	}
}

// Fold lowercases and strips diacritics so "Itaú" and "itau" compare
// equal in searches and group keys.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSpace(b.String())
}
