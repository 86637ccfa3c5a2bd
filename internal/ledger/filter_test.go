package ledger

import (
	"testing"
)

func sampleItems() []Item {
	return []Item{
		{ID: 1, Origin: OriginSheet, Type: Expense, Value: dec("100"), Date: "2024-01-10",
			Description: "Aluguel", CategoryID: 1, Category: &CategoryRef{ID: 1, Name: "Housing"},
			BankID: 1, Bank: &BankRef{ID: 1, Name: "Itaú"}},
		{ID: 2, Origin: OriginTransaction, Type: Income, Value: dec("500"), Date: "2024-01-05",
			Description: "Salary", CategoryID: 2, Category: &CategoryRef{ID: 2, Name: "Work"},
			BankID: 2, Bank: &BankRef{ID: 2, Name: "Nubank"}},
		{ID: 3, Origin: OriginSheet, Type: Expense, Value: dec("40"), Date: "2024-01-20",
			Description: "Mercado", PaidAt: "2024-01-20", CategoryID: 3,
			Category: &CategoryRef{ID: 3, Name: "Food"}, BankID: 2, Bank: &BankRef{ID: 2, Name: "Nubank"}},
	}
}

func TestSearchAccentInsensitive(t *testing.T) {
	got := FilterAndSort(sampleItems(), Filters{Search: "itau"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search 'itau' = %+v", got)
	}
	got = FilterAndSort(sampleItems(), Filters{Search: "ITAÚ"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search 'ITAÚ' = %+v", got)
	}
}

func TestSearchPaidToken(t *testing.T) {
	// "não pago" matches unpaid expenses only; folded query works too.
	got := FilterAndSort(sampleItems(), Filters{Search: "nao pago"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search 'nao pago' = %+v", got)
	}
}

func TestEqualityFilters(t *testing.T) {
	items := sampleItems()
	if got := FilterAndSort(items, Filters{CategoryID: 3}); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("category filter = %+v", got)
	}
	if got := FilterAndSort(items, Filters{BankID: 2}); len(got) != 2 {
		t.Fatalf("bank filter = %+v", got)
	}
	if got := FilterAndSort(items, Filters{Type: Income}); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("type filter = %+v", got)
	}
	if got := FilterAndSort(items, Filters{Paid: PaidYes}); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("paid filter = %+v", got)
	}
	if got := FilterAndSort(items, Filters{Paid: PaidNo}); len(got) != 2 {
		t.Fatalf("unpaid filter = %+v", got)
	}
}

func TestRangeFilters(t *testing.T) {
	items := sampleItems()
	if got := FilterAndSort(items, Filters{DateStart: "2024-01-06", DateEnd: "2024-01-20"}); len(got) != 2 {
		t.Fatalf("date range = %+v", got)
	}
	lo, hi := dec("50"), dec("500")
	if got := FilterAndSort(items, Filters{MinValue: &lo, MaxValue: &hi}); len(got) != 2 {
		t.Fatalf("value range = %+v", got)
	}
	// Bounds are inclusive.
	exact := dec("40")
	if got := FilterAndSort(items, Filters{MinValue: &exact, MaxValue: &exact}); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("inclusive value bound = %+v", got)
	}
}

func TestFilterMonotonicity(t *testing.T) {
	items := sampleItems()
	base := FilterAndSort(items, Filters{BankID: 2})
	narrowed := FilterAndSort(items, Filters{BankID: 2, Type: Expense})
	if len(narrowed) > len(base) {
		t.Fatalf("adding a filter grew the result: %d > %d", len(narrowed), len(base))
	}
}

func TestSortStability(t *testing.T) {
	items := []Item{
		{ID: 1, Date: "2024-01-10", Value: dec("1")},
		{ID: 2, Date: "2024-01-10", Value: dec("2")},
		{ID: 3, Date: "2024-01-10", Value: dec("3")},
		{ID: 4, Date: "2024-01-05", Value: dec("4")},
	}
	asc := FilterAndSort(items, Filters{SortField: SortByDate, SortAsc: true})
	if asc[0].ID != 4 || asc[1].ID != 1 || asc[2].ID != 2 || asc[3].ID != 3 {
		t.Fatalf("asc order = %v %v %v %v", asc[0].ID, asc[1].ID, asc[2].ID, asc[3].ID)
	}
	desc := FilterAndSort(items, Filters{SortField: SortByDate, SortAsc: false})
	// Equal dates keep original relative order in descending mode too.
	if desc[0].ID != 1 || desc[1].ID != 2 || desc[2].ID != 3 || desc[3].ID != 4 {
		t.Fatalf("desc order = %v %v %v %v", desc[0].ID, desc[1].ID, desc[2].ID, desc[3].ID)
	}
}

func TestSortByValueAndBank(t *testing.T) {
	items := sampleItems()
	byValue := FilterAndSort(items, Filters{SortField: SortByValue, SortAsc: true})
	if byValue[0].ID != 3 || byValue[2].ID != 2 {
		t.Fatalf("value sort = %+v", byValue)
	}
	byBank := FilterAndSort(items, Filters{SortField: SortByBank, SortAsc: true})
	if byBank[0].BankName() != "Itaú" {
		t.Fatalf("bank sort = %+v", byBank)
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Itaú":       "itau",
		"ITAÚ ":      "itau",
		"São Paulo":  "sao paulo",
		"não pago":   "nao pago",
		"plain":      "plain",
		"":           "",
		"  spaced  ": "spaced",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDateBoundsExcludeDatelessItems(t *testing.T) {
	items := []Item{
		{ID: 1, Type: Expense, Value: dec("10"), Date: "2024-01-10"},
		{ID: 2, Type: Expense, Value: dec("20")}, // no date
	}
	// Either bound alone excludes the dateless row.
	if got := FilterAndSort(items, Filters{DateStart: "2024-01-01"}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("start-only = %+v", got)
	}
	if got := FilterAndSort(items, Filters{DateEnd: "2024-01-31"}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("end-only = %+v", got)
	}
	// Unbounded keeps it.
	if got := FilterAndSort(items, Filters{}); len(got) != 2 {
		t.Fatalf("unbounded = %+v", got)
	}
}
