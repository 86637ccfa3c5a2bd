package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregateScenario(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("100"), Date: "2024-01-10"},
		{Type: Income, Value: dec("500"), Date: "2024-01-05"},
	}
	got := Aggregate(items, dec("200"))
	if !got.Income.Equal(dec("500")) || !got.Expense.Equal(dec("100")) || !got.Balance.Equal(dec("600")) {
		t.Fatalf("aggregate = %+v", got)
	}
}

func TestAggregateBalanceIdentity(t *testing.T) {
	items := []Item{
		{Type: Income, Value: dec("10.10")},
		{Type: Income, Value: dec("0.20")},
		{Type: Expense, Value: dec("3.33")},
		{Type: Expense, Value: dec("7.07")},
		{Type: Expense, Value: dec("0")},
	}
	initial := dec("99.99")
	got := Aggregate(items, initial)
	want := initial.Add(got.Income).Sub(got.Expense)
	if !got.Balance.Equal(want) {
		t.Fatalf("balance %s != %s", got.Balance, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, dec("42"))
	if !got.Balance.Equal(dec("42")) || !got.Income.IsZero() || !got.Expense.IsZero() {
		t.Fatalf("empty aggregate = %+v", got)
	}
}

func TestGroupByBankCollapsesVariants(t *testing.T) {
	items := []Item{
		{Type: Income, Value: dec("50"), Bank: &BankRef{Name: "Nubank"}},
		{Type: Expense, Value: dec("20"), Bank: &BankRef{Name: "nubank"}},
		{Type: Expense, Value: dec("5")}, // no bank: skipped
	}
	groups := GroupByBank(items, Fold, "", "")
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Key != "nubank" || !g.Income.Equal(dec("50")) || !g.Expense.Equal(dec("20")) {
		t.Fatalf("group = %+v", g)
	}
	if len(g.Items) != 2 {
		t.Fatalf("group has %d items", len(g.Items))
	}
}

func TestGroupByBankDateRangeAndOrder(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("100"), Date: "2024-01-10", Bank: &BankRef{Name: "Caixa"}},
		{Type: Income, Value: dec("300"), Date: "2024-01-15", Bank: &BankRef{Name: "Inter"}},
		{Type: Income, Value: dec("999"), Date: "2023-12-31", Bank: &BankRef{Name: "Caixa"}}, // outside range
	}
	groups := GroupByBank(items, Fold, "2024-01-01", "2024-01-31")
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// Highest net first: inter (+300) before caixa (-100).
	if groups[0].Key != "inter" || groups[1].Key != "caixa" {
		t.Fatalf("order = %s, %s", groups[0].Key, groups[1].Key)
	}
}

func TestTrendBucketsGranularity(t *testing.T) {
	daily := []Item{
		{Type: Expense, Value: dec("1"), Date: "2024-01-01"},
		{Type: Expense, Value: dec("2"), Date: "2024-01-10"},
	}
	if got := TrendBuckets(daily); len(got) != 2 || got[0].Label != "2024-01-01" {
		t.Fatalf("daily buckets = %+v", got)
	}

	weekly := []Item{
		{Type: Expense, Value: dec("1"), Date: "2024-01-01"},
		{Type: Income, Value: dec("2"), Date: "2024-02-05"},
	}
	got := TrendBuckets(weekly)
	if len(got) != 2 || got[0].Label != "2024-W01" || got[1].Label != "2024-W06" {
		t.Fatalf("weekly buckets = %+v", got)
	}

	monthly := []Item{
		{Type: Expense, Value: dec("1"), Date: "2024-01-01"},
		{Type: Expense, Value: dec("2"), Date: "2024-06-30"},
	}
	got = TrendBuckets(monthly)
	if len(got) != 2 || got[0].Label != "2024-01" || got[1].Label != "2024-06" {
		t.Fatalf("monthly buckets = %+v", got)
	}
}

func TestTrendBucketsDeterministic(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("3"), Date: "2024-03-03"},
		{Type: Income, Value: dec("1"), Date: "2024-03-01"},
		{Type: Expense, Value: dec("2"), Date: "2024-03-02"},
	}
	first := TrendBuckets(items)
	for i := 0; i < 5; i++ {
		again := TrendBuckets(items)
		if len(again) != len(first) {
			t.Fatalf("bucket count changed")
		}
		for j := range again {
			if again[j].Label != first[j].Label {
				t.Fatalf("order changed on run %d", i)
			}
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Label >= first[i].Label {
			t.Fatalf("labels not ordered: %v", first)
		}
	}
}

func TestSummarizeCategories(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("80"), Category: &CategoryRef{ID: 1, Name: "Food", Icon: "🍕"}},
		{Type: Expense, Value: dec("20"), Category: &CategoryRef{ID: 1, Name: "Food", Icon: "🍕"}},
		{Type: Income, Value: dec("500"), Category: &CategoryRef{ID: 2, Name: "Salary"}},
		{Type: Expense, Value: dec("5")},
	}
	got := SummarizeCategories(items)
	if len(got) != 3 {
		t.Fatalf("got %d summaries", len(got))
	}
	if got[0].Name != "Food" || !got[0].Expense.Equal(dec("100")) || got[0].Count != 2 {
		t.Fatalf("top summary = %+v", got[0])
	}
	found := false
	for _, s := range got {
		if s.Name == "Uncategorised" && s.Expense.Equal(dec("5")) {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing uncategorised bucket: %+v", got)
	}
}

func TestSummarizeCategoriesUncategorisedTrails(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("10"), Category: &CategoryRef{ID: 1, Name: "Food"}},
		{Type: Expense, Value: dec("900")}, // biggest spender, still last
	}
	got := SummarizeCategories(items)
	if len(got) != 2 {
		t.Fatalf("got %d summaries", len(got))
	}
	if got[len(got)-1].Name != UncategorisedLabel {
		t.Fatalf("uncategorised not trailing: %+v", got)
	}
}

func TestGroupByBankSkipsDatelessWhenBounded(t *testing.T) {
	items := []Item{
		{Type: Expense, Value: dec("10"), Date: "2024-01-10", Bank: &BankRef{Name: "Caixa"}},
		{Type: Expense, Value: dec("99"), Bank: &BankRef{Name: "Caixa"}}, // no date
	}
	// Dateless rows are excluded under either bound alone.
	for _, bounds := range [][2]string{{"2024-01-01", ""}, {"", "2024-01-31"}} {
		groups := GroupByBank(items, Fold, bounds[0], bounds[1])
		if len(groups) != 1 || !groups[0].Expense.Equal(dec("10")) {
			t.Fatalf("bounds %q: groups = %+v", bounds, groups)
		}
	}
	// And included when the range is unbounded.
	groups := GroupByBank(items, Fold, "", "")
	if !groups[0].Expense.Equal(dec("109")) {
		t.Fatalf("unbounded expense = %s", groups[0].Expense)
	}
}
