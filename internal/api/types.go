package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/clearsheet/clearsheet/internal/ledger"
)

// Sheet is a monthly budget container.
type Sheet struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	InitialBalance json.RawMessage `json:"initial_balance"`
}

// Balance returns the initial balance as a decimal; the backend sends it
// as either a number or a string.
func (s Sheet) Balance() decimal.Decimal {
	return ledger.ValueFromJSON(s.InitialBalance)
}

// SheetParams is the request body for creating or updating a sheet.
type SheetParams struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ItemFields is a partial field set for item create/update calls. Keys
// follow the wire names (value, description, date, paid_at, category_id,
// bank_id, type). A nil map value clears the field server-side.
type ItemFields map[string]any
