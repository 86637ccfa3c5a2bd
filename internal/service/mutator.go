package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/ledger"
)

// SavedMarkerDuration is how long a row shows its "just saved"
// confirmation before the marker is cleared.
const SavedMarkerDuration = 1400 * time.Millisecond

// Result is the outcome of one staged mutation's server round trip. The
// token ties the response to the edit that issued it: a response whose
// token is no longer current for its key is stale and gets discarded.
type Result struct {
	Key     string
	Token   string
	Payload json.RawMessage
	Deleted bool
	Err     error
}

type removedItem struct {
	item  ledger.Item
	index int
}

// Mutator owns the in-memory unified item list and applies inline edits
// optimistically: the local record changes immediately, the server call
// runs in the background, and the authoritative response reconciles or
// rolls back the local state.
type Mutator struct {
	API Backend
	Log zerolog.Logger

	items     []ledger.Item
	inflight  map[string]string      // key -> token of the edit we will accept
	saved     map[string]bool        // key -> just-saved marker
	snapshots map[string]ledger.Item // key -> pre-edit copy for rollback/merge
	dueDates  map[string]string      // key -> due date captured at first paid transition
	removed   map[string]removedItem // token -> optimistically deleted item
	banks     map[int]ledger.BankRef
	cats      map[int]ledger.CategoryRef
}

// NewMutator builds an empty controller; call SetView after loading.
func NewMutator(backend Backend, log zerolog.Logger) *Mutator {
	return &Mutator{
		API:       backend,
		Log:       log,
		inflight:  make(map[string]string),
		saved:     make(map[string]bool),
		snapshots: make(map[string]ledger.Item),
		dueDates:  make(map[string]string),
		removed:   make(map[string]removedItem),
		banks:     make(map[int]ledger.BankRef),
		cats:      make(map[int]ledger.CategoryRef),
	}
}

// SetView replaces the working list and reference lookups after a load or
// refresh. Edit bookkeeping is reset: the server state just became
// authoritative.
func (m *Mutator) SetView(v SheetView) {
	m.items = append([]ledger.Item(nil), v.Items...)
	m.inflight = make(map[string]string)
	m.saved = make(map[string]bool)
	m.snapshots = make(map[string]ledger.Item)
	m.dueDates = make(map[string]string)
	m.removed = make(map[string]removedItem)
	m.banks = make(map[int]ledger.BankRef, len(v.Banks))
	for _, b := range v.Banks {
		m.banks[b.ID] = b
	}
	m.cats = make(map[int]ledger.CategoryRef, len(v.Categories))
	for _, c := range v.Categories {
		m.cats[c.ID] = c
	}
}

// Items returns the current working list.
func (m *Mutator) Items() []ledger.Item { return m.items }

// Item finds an item by key.
func (m *Mutator) Item(key string) (ledger.Item, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.items[i], true
	}
	return ledger.Item{}, false
}

// Pending reports whether an edit for key is waiting on the server.
func (m *Mutator) Pending(key string) bool { return m.inflight[key] != "" }

// JustSaved reports whether key is inside its confirmation window.
func (m *Mutator) JustSaved(key string) bool { return m.saved[key] }

// ClearSaved ends the confirmation window for key.
func (m *Mutator) ClearSaved(key string) { delete(m.saved, key) }

func (m *Mutator) indexOf(key string) int {
	for i := range m.items {
		if m.items[i].Key() == key {
			return i
		}
	}
	return -1
}

// StageUpdate applies fields to the local record immediately and returns
// the server call to run in the background. A newer edit on the same key
// supersedes the in-flight one: the older response will be stale.
func (m *Mutator) StageUpdate(key string, fields api.ItemFields) (func(context.Context) Result, bool) {
	idx := m.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	it := m.items[idx]
	// Only the first snapshot per key is kept while edits overlap; it is
	// the merge base and the rollback target.
	if _, ok := m.snapshots[key]; !ok {
		m.snapshots[key] = it
	}
	m.applyLocal(&m.items[idx], fields)

	token := uuid.NewString()
	m.inflight[key] = token
	m.saved[key] = false
	m.Log.Debug().Str("key", key).Str("token", token).Msg("staged update")

	origin, id, sheetID := it.Origin, it.ID, it.SheetID
	return func(ctx context.Context) Result {
		var payload json.RawMessage
		var err error
		if origin == ledger.OriginSheet {
			payload, err = m.API.UpdateSheetItem(ctx, sheetID, id, fields)
		} else {
			payload, err = m.API.UpdateTransaction(ctx, id, fields)
		}
		return Result{Key: key, Token: token, Payload: payload, Err: err}
	}, true
}

// StagePaidToggle flips an expense's paid state. Marking paid records the
// due date once per key; unmarking restores that recorded date rather
// than trusting whatever the local state holds by then.
func (m *Mutator) StagePaidToggle(key, paidAt string) (func(context.Context) Result, bool) {
	it, ok := m.Item(key)
	if !ok || it.Type != ledger.Expense {
		return nil, false
	}
	if !it.Paid() {
		if _, seen := m.dueDates[key]; !seen {
			m.dueDates[key] = it.Date
		}
		return m.StageUpdate(key, api.ItemFields{"paid_at": paidAt})
	}
	fields := api.ItemFields{"paid_at": nil}
	if due, seen := m.dueDates[key]; seen && due != "" {
		fields["date"] = due
	}
	return m.StageUpdate(key, fields)
}

// StageDelete removes the item locally and returns the delete call. A
// failed delete reinserts the item at its old position.
func (m *Mutator) StageDelete(key string) (func(context.Context) Result, bool) {
	idx := m.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	it := m.items[idx]
	m.items = append(m.items[:idx], m.items[idx+1:]...)

	token := uuid.NewString()
	m.inflight[key] = token
	m.removed[token] = removedItem{item: it, index: idx}
	m.Log.Debug().Str("key", key).Msg("staged delete")

	origin, id, sheetID := it.Origin, it.ID, it.SheetID
	return func(ctx context.Context) Result {
		var err error
		if origin == ledger.OriginSheet {
			err = m.API.DeleteSheetItem(ctx, sheetID, id)
		} else {
			err = m.API.DeleteTransaction(ctx, id)
		}
		return Result{Key: key, Token: token, Deleted: true, Err: err}
	}, true
}

// Resolve folds a server response back into local state. Stale responses
// are dropped. Failures roll the optimistic change back and return the
// error for the status line.
func (m *Mutator) Resolve(res Result) error {
	if m.inflight[res.Key] != res.Token {
		m.Log.Debug().Str("key", res.Key).Msg("discarding stale response")
		return nil
	}
	delete(m.inflight, res.Key)

	if res.Deleted {
		rem, ok := m.removed[res.Token]
		delete(m.removed, res.Token)
		if res.Err != nil {
			if ok {
				m.reinsert(rem)
			}
			m.Log.Warn().Str("key", res.Key).Err(res.Err).Msg("delete failed, item restored")
			return res.Err
		}
		delete(m.snapshots, res.Key)
		delete(m.dueDates, res.Key)
		return nil
	}

	snapshot, hasSnapshot := m.snapshots[res.Key]
	delete(m.snapshots, res.Key)

	if res.Err != nil {
		if hasSnapshot {
			if idx := m.indexOf(res.Key); idx >= 0 {
				m.items[idx] = snapshot
			}
		}
		m.Log.Warn().Str("key", res.Key).Err(res.Err).Msg("update failed, rolled back")
		return res.Err
	}

	idx := m.indexOf(res.Key)
	if idx < 0 {
		return nil
	}
	// Merge the server's echo over the pre-edit raw payload so fields the
	// server omitted survive reconciliation.
	base := snapshot.Raw
	if !hasSnapshot {
		base = m.items[idx].Raw
	}
	merged := mergeRaw(base, res.Payload)
	fresh := ledger.Unify(merged, m.items[idx].Origin)
	m.joinItem(&fresh)
	m.items[idx] = fresh
	m.saved[res.Key] = true
	return nil
}

// Insert appends a freshly created server record to the working list.
func (m *Mutator) Insert(payload json.RawMessage, origin ledger.Origin) ledger.Item {
	it := ledger.Unify(payload, origin)
	m.joinItem(&it)
	m.items = append(m.items, it)
	return it
}

func (m *Mutator) reinsert(rem removedItem) {
	idx := rem.index
	if idx > len(m.items) {
		idx = len(m.items)
	}
	m.items = append(m.items[:idx], append([]ledger.Item{rem.item}, m.items[idx:]...)...)
}

func (m *Mutator) joinItem(it *ledger.Item) {
	if it.Bank == nil && it.BankID != 0 {
		if b, ok := m.banks[it.BankID]; ok {
			bank := b
			it.Bank = &bank
		}
	}
	if it.Category == nil && it.CategoryID != 0 {
		if c, ok := m.cats[it.CategoryID]; ok {
			cat := c
			it.Category = &cat
		}
	}
}

// applyLocal mirrors a partial field set onto the in-memory item for
// instant feedback; the server response replaces it wholesale later.
func (m *Mutator) applyLocal(it *ledger.Item, fields api.ItemFields) {
	for name, value := range fields {
		switch name {
		case "value":
			it.Value = coerceValue(value)
		case "description":
			it.Description, _ = value.(string)
		case "date":
			s, _ := value.(string)
			it.Date = ledger.NormalizeDate(s)
		case "paid_at":
			if value == nil {
				it.PaidAt = ""
			} else {
				s, _ := value.(string)
				it.PaidAt = ledger.NormalizeDate(s)
			}
		case "category_id":
			it.CategoryID = coerceID(value)
			it.Category = nil
			if c, ok := m.cats[it.CategoryID]; ok {
				cat := c
				it.Category = &cat
			}
		case "bank_id":
			it.BankID = coerceID(value)
			it.Bank = nil
			if b, ok := m.banks[it.BankID]; ok {
				bank := b
				it.Bank = &bank
			}
		case "type":
			s, _ := value.(string)
			if s == string(ledger.Income) {
				it.Type = ledger.Income
				it.PaidAt = ""
			} else {
				it.Type = ledger.Expense
			}
		}
	}
}

func coerceValue(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case string:
		return ledger.ParseAmount(n)
	default:
		return decimal.Zero
	}
}

func coerceID(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// mergeRaw overlays the server payload on the original record, keeping
// original fields the server did not echo.
func mergeRaw(base, overlay json.RawMessage) json.RawMessage {
	var baseMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil || baseMap == nil {
		baseMap = map[string]json.RawMessage{}
	}
	var overlayMap map[string]json.RawMessage
	if err := json.Unmarshal(overlay, &overlayMap); err != nil {
		return base
	}
	for k, v := range overlayMap {
		baseMap[k] = v
	}
	merged, err := json.Marshal(baseMap)
	if err != nil {
		return overlay
	}
	return merged
}
