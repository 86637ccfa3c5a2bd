package ledger

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Origin says which backend collection owns an item. It is always supplied
// by the caller that fetched the record; nothing infers it from payload
// shape, because the two legacy call sites that tried disagreed with each
// other.
type Origin string

const (
	OriginSheet       Origin = "sheet"
	OriginTransaction Origin = "transaction"
)

// ItemType controls sign and which fields are meaningful.
type ItemType string

const (
	Income  ItemType = "income"
	Expense ItemType = "expense"
)

// CategoryRef is the denormalized category snapshot the backend attaches
// to items.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// BankRef is the denormalized bank snapshot.
type BankRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Item is the unified view model for one financial movement, whether it
// came from a sheet's item list or the stand-alone transactions endpoint.
type Item struct {
	ID          int
	Origin      Origin
	SheetID     int // 0 when not linked to a sheet
	Type        ItemType
	Value       decimal.Decimal // magnitude; sign implied by Type
	Description string
	Date        string // canonical YYYY-MM-DD; due date for expenses
	PaidAt      string // "" means unpaid; always "" for income
	Category    *CategoryRef
	CategoryID  int
	Bank        *BankRef
	BankID      int
	Raw         json.RawMessage // original payload, kept for merge-safe reconciliation
}

// Key identifies an item across both origin collections.
func (it Item) Key() string {
	return string(it.Origin) + "-" + strconv.Itoa(it.ID)
}

// Paid reports whether an expense has been settled.
func (it Item) Paid() bool {
	return it.Type == Expense && it.PaidAt != ""
}

// IsOverdue reports whether an unpaid expense is past its due date.
// Income is never overdue.
func (it Item) IsOverdue(today string) bool {
	return it.Type == Expense && it.PaidAt == "" && it.Date != "" && it.Date < today
}

// rawRecord is the loosely typed JSON shape both item endpoints emit.
type rawRecord struct {
	ID          int             `json:"id"`
	SheetID     *int            `json:"sheet_id"`
	Type        string          `json:"type"`
	Value       json.RawMessage `json:"value"`
	Description *string         `json:"description"`
	Date        *string         `json:"date"`
	PaidAt      *string         `json:"paid_at"`
	CategoryID  *int            `json:"category_id"`
	Category    *CategoryRef    `json:"category"`
	BankID      *int            `json:"bank_id"`
	Bank        *BankRef        `json:"bank"`
}

// Unify maps a raw server payload into the unified item shape. It is a
// pure function: bad payloads degrade to zero values rather than errors,
// and the original bytes are retained on Raw.
func Unify(payload json.RawMessage, origin Origin) Item {
	var rec rawRecord
	_ = json.Unmarshal(payload, &rec)

	it := Item{
		ID:       rec.ID,
		Origin:   origin,
		Type:     normalizeType(rec.Type),
		Value:    ValueFromJSON(rec.Value),
		Category: rec.Category,
		Bank:     rec.Bank,
		Raw:      append(json.RawMessage(nil), payload...),
	}
	if rec.SheetID != nil {
		it.SheetID = *rec.SheetID
	}
	if rec.Description != nil {
		it.Description = *rec.Description
	}
	if rec.Date != nil {
		it.Date = NormalizeDate(*rec.Date)
	}
	if rec.PaidAt != nil {
		it.PaidAt = NormalizeDate(*rec.PaidAt)
	}
	if rec.CategoryID != nil {
		it.CategoryID = *rec.CategoryID
	} else if rec.Category != nil {
		it.CategoryID = rec.Category.ID
	}
	if rec.BankID != nil {
		it.BankID = *rec.BankID
	} else if rec.Bank != nil {
		it.BankID = rec.Bank.ID
	}

	// Income is never payable.
	if it.Type == Income {
		it.PaidAt = ""
	}
	return it
}

func normalizeType(s string) ItemType {
	if strings.EqualFold(strings.TrimSpace(s), string(Income)) {
		return Income
	}
	return Expense
}

// CategoryName returns the snapshot name or "".
func (it Item) CategoryName() string {
	if it.Category == nil {
		return ""
	}
	return it.Category.Name
}

// BankName returns the snapshot name or "".
func (it Item) BankName() string {
	if it.Bank == nil {
		return ""
	}
	return it.Bank.Name
}
