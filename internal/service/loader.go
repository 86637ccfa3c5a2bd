// Package service holds the client-side behavior between the API and the
// views: loading a sheet's collections concurrently into the unified view
// model, and applying optimistic inline edits against it.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/ledger"
)

// Backend is the slice of the API client the services need. Tests swap in
// fakes.
type Backend interface {
	GetSheet(ctx context.Context, id int) (api.Sheet, error)
	ListSheetItems(ctx context.Context, sheetID int) ([]json.RawMessage, error)
	ListTransactions(ctx context.Context, sheetID int) ([]json.RawMessage, error)
	ListBanks(ctx context.Context) ([]ledger.BankRef, error)
	ListCategories(ctx context.Context) ([]ledger.CategoryRef, error)
	CreateSheetItem(ctx context.Context, sheetID int, fields api.ItemFields) (json.RawMessage, error)
	UpdateSheetItem(ctx context.Context, sheetID, itemID int, fields api.ItemFields) (json.RawMessage, error)
	UpdateTransaction(ctx context.Context, id int, fields api.ItemFields) (json.RawMessage, error)
	DeleteSheetItem(ctx context.Context, sheetID, itemID int) error
	DeleteTransaction(ctx context.Context, id int) error
}

// SheetView is everything one sheet page needs, unified and joined.
type SheetView struct {
	Sheet          api.Sheet
	InitialBalance decimal.Decimal
	Items          []ledger.Item
	Banks          []ledger.BankRef
	Categories     []ledger.CategoryRef
}

// Loader fetches a sheet's collections.
type Loader struct {
	API Backend
	Log zerolog.Logger
}

// LoadSheetView fetches the sheet, both item sources, and the reference
// lists in one round-trip latency, unifies the items with explicit
// origins, and joins missing category/bank snapshots from the reference
// lists.
func (l *Loader) LoadSheetView(ctx context.Context, sheetID int) (SheetView, error) {
	var (
		sheet        api.Sheet
		sheetItems   []json.RawMessage
		transactions []json.RawMessage
		bankList     []ledger.BankRef
		categoryList []ledger.CategoryRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sheet, err = l.API.GetSheet(gctx, sheetID)
		return err
	})
	g.Go(func() (err error) {
		sheetItems, err = l.API.ListSheetItems(gctx, sheetID)
		return err
	})
	g.Go(func() (err error) {
		transactions, err = l.API.ListTransactions(gctx, sheetID)
		return err
	})
	g.Go(func() (err error) {
		bankList, err = l.API.ListBanks(gctx)
		return err
	})
	g.Go(func() (err error) {
		categoryList, err = l.API.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SheetView{}, fmt.Errorf("load sheet %d: %w", sheetID, err)
	}

	items := make([]ledger.Item, 0, len(sheetItems)+len(transactions))
	for _, raw := range sheetItems {
		items = append(items, ledger.Unify(raw, ledger.OriginSheet))
	}
	for _, raw := range transactions {
		items = append(items, ledger.Unify(raw, ledger.OriginTransaction))
	}
	joinSnapshots(items, bankList, categoryList)

	l.Log.Debug().Int("sheet", sheetID).Int("items", len(items)).Msg("sheet view loaded")
	return SheetView{
		Sheet:          sheet,
		InitialBalance: sheet.Balance(),
		Items:          items,
		Banks:          bankList,
		Categories:     categoryList,
	}, nil
}

// joinSnapshots fills in denormalized category/bank records for items the
// backend sent with bare foreign keys.
func joinSnapshots(items []ledger.Item, bankList []ledger.BankRef, categoryList []ledger.CategoryRef) {
	bankByID := make(map[int]ledger.BankRef, len(bankList))
	for _, b := range bankList {
		bankByID[b.ID] = b
	}
	catByID := make(map[int]ledger.CategoryRef, len(categoryList))
	for _, c := range categoryList {
		catByID[c.ID] = c
	}
	for i := range items {
		if items[i].Bank == nil && items[i].BankID != 0 {
			if b, ok := bankByID[items[i].BankID]; ok {
				bank := b
				items[i].Bank = &bank
			}
		}
		if items[i].Category == nil && items[i].CategoryID != 0 {
			if c, ok := catByID[items[i].CategoryID]; ok {
				cat := c
				items[i].Category = &cat
			}
		}
	}
}
