package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/ledger"
	"github.com/clearsheet/clearsheet/internal/logging"
)

func TestLoadSheetViewUnifiesBothSources(t *testing.T) {
	f := &fakeBackend{
		sheet: api.Sheet{ID: 3, Name: "January", InitialBalance: json.RawMessage(`"200,00"`)},
		sheetItems: []json.RawMessage{
			json.RawMessage(`{"id":1,"sheet_id":3,"type":"expense","value":100,"date":"2024-01-10"}`),
		},
		transactions: []json.RawMessage{
			json.RawMessage(`{"id":2,"type":"income","value":500,"date":"2024-01-05","bank_id":7}`),
		},
		banks:      []ledger.BankRef{{ID: 7, Name: "Itaú"}},
		categories: []ledger.CategoryRef{{ID: 1, Name: "Housing"}},
	}
	l := &Loader{API: f, Log: logging.Nop()}

	view, err := l.LoadSheetView(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "January", view.Sheet.Name)
	assert.Equal(t, "200", view.InitialBalance.String())
	require.Len(t, view.Items, 2)

	// Origins come from which endpoint produced the record.
	assert.Equal(t, ledger.OriginSheet, view.Items[0].Origin)
	assert.Equal(t, ledger.OriginTransaction, view.Items[1].Origin)

	// Bare bank_id joined against the reference list.
	require.NotNil(t, view.Items[1].Bank)
	assert.Equal(t, "Itaú", view.Items[1].Bank.Name)

	// The loaded view satisfies the balance identity.
	totals := ledger.Aggregate(view.Items, view.InitialBalance)
	assert.Equal(t, "600", totals.Balance.String())
}

func TestLoadSheetViewPropagatesErrors(t *testing.T) {
	f := &failingBackend{}
	l := &Loader{API: f, Log: logging.Nop()}
	_, err := l.LoadSheetView(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load sheet 1")
}

type failingBackend struct{ fakeBackend }

func (f *failingBackend) ListTransactions(ctx context.Context, sheetID int) ([]json.RawMessage, error) {
	return nil, assert.AnError
}
