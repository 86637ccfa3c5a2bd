package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Totals is the headline aggregate for a list of items.
// Balance = initial + Income - Expense holds exactly for every call.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Aggregate partitions item values by type and derives the running balance
// from the supplied initial balance.
func Aggregate(items []Item, initial decimal.Decimal) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, it := range items {
		switch it.Type {
		case Income:
			t.Income = t.Income.Add(it.Value)
		default:
			t.Expense = t.Expense.Add(it.Value)
		}
	}
	t.Balance = initial.Add(t.Income).Sub(t.Expense)
	return t
}

// BankGroup is the derived aggregate of all items sharing one resolved
// bank identity.
type BankGroup struct {
	Key     string
	Title   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Items   []Item
}

// Net is the group ordering key: income minus expense.
func (g BankGroup) Net() decimal.Decimal {
	return g.Income.Sub(g.Expense)
}

// GroupByBank buckets items by canonical bank identity. Items without a
// bank snapshot are skipped. When dateStart/dateEnd are non-empty the
// item's date must fall inside the inclusive range; canonical dates order
// lexicographically so plain string comparison is enough. Groups come back
// sorted by net balance, highest first.
func GroupByBank(items []Item, resolve func(string) string, dateStart, dateEnd string) []BankGroup {
	groups := make(map[string]*BankGroup)
	var order []string
	for _, it := range items {
		if it.Bank == nil || it.Bank.Name == "" {
			continue
		}
		// Dateless items fall outside any bounded range.
		if (dateStart != "" || dateEnd != "") && it.Date == "" {
			continue
		}
		if dateStart != "" && it.Date < dateStart {
			continue
		}
		if dateEnd != "" && it.Date > dateEnd {
			continue
		}
		key := resolve(it.Bank.Name)
		g, ok := groups[key]
		if !ok {
			g = &BankGroup{Key: key, Title: it.Bank.Name, Income: decimal.Zero, Expense: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		if it.Type == Income {
			g.Income = g.Income.Add(it.Value)
		} else {
			g.Expense = g.Expense.Add(it.Value)
		}
		g.Items = append(g.Items, it)
	}

	out := make([]BankGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		cmp := out[i].Net().Cmp(out[j].Net())
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Bucket is one time slice of the trend series.
type Bucket struct {
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Trend granularity thresholds, in days of date span.
const (
	dailySpanMax  = 15
	weeklySpanMax = 45
)

// TrendBuckets produces the time-bucketed income/expense series for the
// dashboard sparkline. Granularity adapts to the date span: short ranges
// get daily buckets, medium ranges ISO weeks, anything longer months.
// Output is ordered by time and deterministic for the same input.
func TrendBuckets(items []Item) []Bucket {
	var dated []Item
	minDate, maxDate := "", ""
	for _, it := range items {
		if it.Date == "" {
			continue
		}
		dated = append(dated, it)
		if minDate == "" || it.Date < minDate {
			minDate = it.Date
		}
		if maxDate == "" || it.Date > maxDate {
			maxDate = it.Date
		}
	}
	if len(dated) == 0 {
		return nil
	}

	span := daysBetween(minDate, maxDate)
	var keyFor func(date string) string
	switch {
	case span <= dailySpanMax:
		keyFor = func(date string) string { return date }
	case span <= weeklySpanMax:
		keyFor = isoWeekKey
	default:
		keyFor = func(date string) string { return date[:7] }
	}

	buckets := make(map[string]*Bucket)
	for _, it := range dated {
		key := keyFor(it.Date)
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Label: key, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = b
		}
		if it.Type == Income {
			b.Income = b.Income.Add(it.Value)
		} else {
			b.Expense = b.Expense.Add(it.Value)
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}

func daysBetween(start, end string) int {
	s, err1 := time.Parse(ISO, start)
	e, err2 := time.Parse(ISO, end)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}

func isoWeekKey(date string) string {
	t, err := time.Parse(ISO, date)
	if err != nil {
		return date
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CategorySummary aggregates one category's movements for the analytics
// view.
type CategorySummary struct {
	Name    string
	Icon    string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// SummarizeCategories groups items by category snapshot. Sorted by
// expense, highest first, except the uncategorised bucket, which always
// trails the named categories.
// UncategorisedLabel names the bucket for items without a category
// snapshot.
const UncategorisedLabel = "Uncategorised"

func SummarizeCategories(items []Item) []CategorySummary {
	groups := make(map[string]*CategorySummary)
	var order []string
	for _, it := range items {
		name, icon := UncategorisedLabel, ""
		if it.Category != nil && it.Category.Name != "" {
			name, icon = it.Category.Name, it.Category.Icon
		}
		s, ok := groups[name]
		if !ok {
			s = &CategorySummary{Name: name, Icon: icon, Income: decimal.Zero, Expense: decimal.Zero}
			groups[name] = s
			order = append(order, name)
		}
		if it.Type == Income {
			s.Income = s.Income.Add(it.Value)
		} else {
			s.Expense = s.Expense.Add(it.Value)
		}
		s.Count++
	}
	out := make([]CategorySummary, 0, len(order))
	for _, name := range order {
		out = append(out, *groups[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if a, b := out[i].Name == UncategorisedLabel, out[j].Name == UncategorisedLabel; a != b {
			return b
		}
		cmp := out[i].Expense.Cmp(out[j].Expense)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
