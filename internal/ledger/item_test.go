package ledger

import (
	"encoding/json"
	"testing"
)

func TestUnifySheetItem(t *testing.T) {
	payload := json.RawMessage(`{
		"id": 7,
		"sheet_id": 3,
		"type": "expense",
		"value": "1.200,50",
		"description": "Rent",
		"date": "2024-01-10T00:00:00Z",
		"paid_at": null,
		"category_id": 2,
		"category": {"id": 2, "name": "Housing", "icon": "🏠"},
		"bank": {"id": 1, "name": "Itaú"}
	}`)
	it := Unify(payload, OriginSheet)

	if it.ID != 7 || it.Origin != OriginSheet || it.SheetID != 3 {
		t.Fatalf("identity fields wrong: %+v", it)
	}
	if it.Type != Expense {
		t.Errorf("type = %q", it.Type)
	}
	if it.Value.String() != "1200.5" {
		t.Errorf("value = %s", it.Value)
	}
	if it.Date != "2024-01-10" {
		t.Errorf("date = %q", it.Date)
	}
	if it.PaidAt != "" {
		t.Errorf("paid_at = %q, want empty", it.PaidAt)
	}
	if it.CategoryID != 2 || it.Category == nil || it.Category.Name != "Housing" {
		t.Errorf("category not carried: %+v", it.Category)
	}
	// bank_id absent but snapshot present: id taken from snapshot
	if it.BankID != 1 || it.Bank == nil || it.Bank.Name != "Itaú" {
		t.Errorf("bank not carried: %+v", it.Bank)
	}
	if len(it.Raw) == 0 {
		t.Errorf("raw payload not retained")
	}
}

func TestUnifyOriginIsCallerSupplied(t *testing.T) {
	// Same payload, two origins: origin must come from the caller, never
	// from sheet_id presence.
	payload := json.RawMessage(`{"id": 1, "sheet_id": 9, "type": "income", "value": 10}`)
	if got := Unify(payload, OriginTransaction).Origin; got != OriginTransaction {
		t.Errorf("origin = %q, want transaction", got)
	}
	if got := Unify(payload, OriginSheet).Origin; got != OriginSheet {
		t.Errorf("origin = %q, want sheet", got)
	}
}

func TestUnifyIncomeNeverPayable(t *testing.T) {
	payload := json.RawMessage(`{"id": 2, "type": "income", "value": 500, "paid_at": "2024-01-15"}`)
	it := Unify(payload, OriginTransaction)
	if it.PaidAt != "" {
		t.Fatalf("income item has paid_at %q", it.PaidAt)
	}
}

func TestUnifyGarbagePayload(t *testing.T) {
	it := Unify(json.RawMessage(`not json`), OriginSheet)
	if it.ID != 0 || !it.Value.IsZero() {
		t.Fatalf("garbage payload should degrade to zero values: %+v", it)
	}
}

func TestItemKey(t *testing.T) {
	it := Item{ID: 42, Origin: OriginTransaction}
	if it.Key() != "transaction-42" {
		t.Errorf("key = %q", it.Key())
	}
}

func TestIsOverdue(t *testing.T) {
	today := "2024-02-01"
	unpaidPast := Item{Type: Expense, Date: "2024-01-10"}
	if !unpaidPast.IsOverdue(today) {
		t.Errorf("unpaid past-due expense should be overdue")
	}
	paidPast := Item{Type: Expense, Date: "2024-01-10", PaidAt: "2024-01-15"}
	if paidPast.IsOverdue(today) {
		t.Errorf("paid expense should not be overdue")
	}
	futureDue := Item{Type: Expense, Date: "2024-03-01"}
	if futureDue.IsOverdue(today) {
		t.Errorf("future expense should not be overdue")
	}
	income := Item{Type: Income, Date: "2020-01-01"}
	if income.IsOverdue(today) {
		t.Errorf("income is never overdue")
	}
}
