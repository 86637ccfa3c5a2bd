// Package tui is the terminal front end: a tabbed Bubble Tea program over
// the unified item list, with inline edits applied optimistically and
// reconciled against the server in the background.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/banks"
	"github.com/clearsheet/clearsheet/internal/config"
	"github.com/clearsheet/clearsheet/internal/ledger"
	"github.com/clearsheet/clearsheet/internal/service"
)

type tabID int

const (
	tabDashboard tabID = iota
	tabTransactions
	tabAnalytics
	tabSettings
	tabCount
)

func (t tabID) String() string {
	switch t {
	case tabDashboard:
		return "Dashboard"
	case tabTransactions:
		return "Transactions"
	case tabAnalytics:
		return "Analytics"
	default:
		return "Settings"
	}
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeEditValue
	modeEditDesc
	modeEditDate
	modePickCategory
	modePickBank
	modeNewSheet
	modeRenameSheet
)

// statusLevel picks the status line register: warnings are user-fixable
// (validation), errors are server/transport failures.
type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
)

const requestTimeout = 30 * time.Second

// App is the root Bubble Tea model.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	client   *api.Client
	loader   *service.Loader
	mut      *service.Mutator
	registry *banks.Registry

	keys keyMap

	sheets    []api.Sheet
	sheetIdx  int
	view      service.SheetView
	loadToken string
	loading   bool
	ready     bool

	tab     tabID
	filters ledger.Filters
	visible []ledger.Item
	cursor  int

	mode    inputMode
	input   textinput.Model
	editKey string
	pickIdx int

	status    string
	statusLvl statusLevel

	width  int
	height int
}

// New wires the root model. Call tea.NewProgram on the result.
func New(cfg *config.Config, log zerolog.Logger, client *api.Client, loader *service.Loader, mut *service.Mutator, registry *banks.Registry) *App {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40
	return &App{
		cfg:      cfg,
		log:      log,
		client:   client,
		loader:   loader,
		mut:      mut,
		registry: registry,
		keys:     defaultKeyMap(),
		input:    input,
		filters:  ledger.Filters{SortField: ledger.SortByDate, SortAsc: true},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadSheetsCmd())
}

func (a *App) loadSheetsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sheets, err := a.client.ListSheets(ctx)
		return sheetsLoadedMsg{sheets: sheets, err: err}
	}
}

// loadViewCmd issues a fresh load token; responses carrying an older token
// are dropped in Update so a slow fetch never overwrites a newer sheet.
func (a *App) loadViewCmd(sheetID int) tea.Cmd {
	token := uuid.NewString()
	a.loadToken = token
	a.loading = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := a.loader.LoadSheetView(ctx, sheetID)
		return viewLoadedMsg{token: token, view: view, err: err}
	}
}

func (a *App) mutationCmd(call func(context.Context) service.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return mutationDoneMsg{res: call(ctx)}
	}
}

func (a *App) createItemCmd(fields api.ItemFields) tea.Cmd {
	sheetID := a.view.Sheet.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		payload, err := a.client.CreateSheetItem(ctx, sheetID, fields)
		return itemCreatedMsg{payload: payload, err: err}
	}
}

func (a *App) createSheetCmd(params api.SheetParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s, err := a.client.CreateSheet(ctx, params)
		return sheetSavedMsg{sheet: s, created: true, err: err}
	}
}

func (a *App) renameSheetCmd(id int, params api.SheetParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s, err := a.client.UpdateSheet(ctx, id, params)
		return sheetSavedMsg{sheet: s, err: err}
	}
}

func (a *App) deleteSheetCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sheetDeletedMsg{id: id, err: a.client.DeleteSheet(ctx, id)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return logoutDoneMsg{err: a.client.Logout(ctx)}
	}
}

func savedExpiryCmd(key string) tea.Cmd {
	return tea.Tick(service.SavedMarkerDuration, func(time.Time) tea.Msg {
		return savedExpiredMsg{key: key}
	})
}

// refreshVisible re-derives the filtered, sorted row list and keeps the
// cursor inside it.
func (a *App) refreshVisible() {
	a.visible = ledger.FilterAndSort(a.mut.Items(), a.filters)
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) cursorItem() (ledger.Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return ledger.Item{}, false
	}
	return a.visible[a.cursor], true
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusLvl = statusInfo
}

func (a *App) setWarning(s string) {
	a.status = s
	a.statusLvl = statusWarn
}

func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.status = err.Error()
	a.statusLvl = statusError
	a.log.Warn().Err(err).Msg("surfaced to status line")
}
