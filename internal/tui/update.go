package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/ledger"
)

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case sheetsLoadedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.sheets = msg.sheets
		if len(a.sheets) == 0 {
			a.setStatus("no sheets on this account")
			return a, nil
		}
		// Open the newest sheet by default.
		a.sheetIdx = len(a.sheets) - 1
		return a, a.loadViewCmd(a.sheets[a.sheetIdx].ID)

	case viewLoadedMsg:
		if msg.token != a.loadToken {
			a.log.Debug().Msg("dropping stale view load")
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.view = msg.view
		a.mut.SetView(msg.view)
		a.ready = true
		a.refreshVisible()
		a.setStatus(fmt.Sprintf("loaded %s (%d items)", a.view.Sheet.Name, len(a.view.Items)))
		return a, nil

	case mutationDoneMsg:
		err := a.mut.Resolve(msg.res)
		a.refreshVisible()
		if err != nil {
			a.setError(err)
			return a, nil
		}
		if a.mut.JustSaved(msg.res.Key) {
			a.setStatus("saved")
			return a, savedExpiryCmd(msg.res.Key)
		}
		return a, nil

	case itemCreatedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		it := a.mut.Insert(msg.payload, ledger.OriginSheet)
		a.refreshVisible()
		a.setStatus("added " + it.Description)
		return a, nil

	case sheetSavedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		if msg.created {
			a.sheets = append(a.sheets, msg.sheet)
			a.sheetIdx = len(a.sheets) - 1
			a.setStatus("created " + msg.sheet.Name)
			return a, a.loadViewCmd(msg.sheet.ID)
		}
		for i := range a.sheets {
			if a.sheets[i].ID == msg.sheet.ID {
				a.sheets[i] = msg.sheet
			}
		}
		if a.view.Sheet.ID == msg.sheet.ID {
			a.view.Sheet = msg.sheet
		}
		a.setStatus("renamed to " + msg.sheet.Name)
		return a, nil

	case sheetDeletedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		kept := a.sheets[:0]
		for _, s := range a.sheets {
			if s.ID != msg.id {
				kept = append(kept, s)
			}
		}
		a.sheets = kept
		if len(a.sheets) == 0 {
			a.ready = false
			a.setStatus("sheet deleted; no sheets left")
			return a, nil
		}
		if a.sheetIdx >= len(a.sheets) {
			a.sheetIdx = len(a.sheets) - 1
		}
		a.setStatus("sheet deleted")
		return a, a.loadViewCmd(a.sheets[a.sheetIdx].ID)

	case savedExpiredMsg:
		a.mut.ClearSaved(msg.key)
		return a, nil

	case logoutDoneMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		if err := a.cfg.ClearToken(); err != nil {
			a.setError(err)
			return a, nil
		}
		a.client.SetToken("")
		return a, tea.Quit

	case errMsg:
		a.setError(msg.err)
		return a, nil

	case tea.KeyMsg:
		if a.mode != modeNormal {
			return a.updateInputMode(msg)
		}
		return a.updateNormalMode(msg)
	}
	return a, nil
}

func (a *App) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit

	case key.Matches(msg, k.NextTab):
		a.tab = (a.tab + 1) % tabCount
		return a, nil
	case key.Matches(msg, k.PrevTab):
		a.tab = (a.tab + tabCount - 1) % tabCount
		return a, nil

	case key.Matches(msg, k.Refresh):
		if len(a.sheets) == 0 {
			return a, a.loadSheetsCmd()
		}
		return a, a.loadViewCmd(a.sheets[a.sheetIdx].ID)

	case key.Matches(msg, k.PrevSheet):
		if a.sheetIdx > 0 {
			a.sheetIdx--
			return a, a.loadViewCmd(a.sheets[a.sheetIdx].ID)
		}
		return a, nil
	case key.Matches(msg, k.NextSheet):
		if a.sheetIdx < len(a.sheets)-1 {
			a.sheetIdx++
			return a, a.loadViewCmd(a.sheets[a.sheetIdx].ID)
		}
		return a, nil

	case key.Matches(msg, k.Logout):
		if a.tab == tabSettings {
			return a, a.logoutCmd()
		}
		return a, nil
	}

	if a.tab == tabDashboard {
		switch {
		case key.Matches(msg, k.NewSheet):
			a.mode = modeNewSheet
			a.input.Placeholder = "new sheet name"
			a.input.SetValue("")
			a.input.Focus()
			return a, nil
		case key.Matches(msg, k.RenSheet):
			if !a.ready {
				return a, nil
			}
			a.mode = modeRenameSheet
			a.input.Placeholder = "sheet name"
			a.input.SetValue(a.view.Sheet.Name)
			a.input.CursorEnd()
			a.input.Focus()
			return a, nil
		case key.Matches(msg, k.DelSheet):
			if !a.ready {
				return a, nil
			}
			return a, a.deleteSheetCmd(a.view.Sheet.ID)
		}
	}

	if a.tab != tabTransactions {
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, k.Down):
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
	case key.Matches(msg, k.Top):
		a.cursor = 0
	case key.Matches(msg, k.Bottom):
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}

	case key.Matches(msg, k.Search):
		a.mode = modeSearch
		a.input.Placeholder = "search"
		a.input.SetValue(a.filters.Search)
		a.input.Focus()
	case key.Matches(msg, k.Sort):
		a.filters.SortField = nextSortField(a.filters.SortField)
		a.refreshVisible()
		a.setStatus("sort: " + string(a.filters.SortField))
	case key.Matches(msg, k.SortDir):
		a.filters.SortAsc = !a.filters.SortAsc
		a.refreshVisible()
	case key.Matches(msg, k.FilterPaid):
		a.filters.Paid = nextPaidFilter(a.filters.Paid)
		a.refreshVisible()
	case key.Matches(msg, k.FilterType):
		a.filters.Type = nextTypeFilter(a.filters.Type)
		a.refreshVisible()

	case key.Matches(msg, k.EditValue):
		return a.beginEdit(modeEditValue, "value")
	case key.Matches(msg, k.EditDesc):
		return a.beginEdit(modeEditDesc, "description")
	case key.Matches(msg, k.EditDate):
		return a.beginEdit(modeEditDate, "date (YYYY-MM-DD)")
	case key.Matches(msg, k.PickCat):
		if it, ok := a.cursorItem(); ok {
			a.editKey = it.Key()
			a.mode = modePickCategory
			a.pickIdx = 0
		}
	case key.Matches(msg, k.PickBank):
		if it, ok := a.cursorItem(); ok {
			a.editKey = it.Key()
			a.mode = modePickBank
			a.pickIdx = 0
		}

	case key.Matches(msg, k.TogglePaid):
		if it, ok := a.cursorItem(); ok {
			call, staged := a.mut.StagePaidToggle(it.Key(), ledger.Today())
			if !staged {
				a.setStatus("only expenses have a paid state")
				return a, nil
			}
			a.refreshVisible()
			return a, a.mutationCmd(call)
		}
	case key.Matches(msg, k.Delete):
		if it, ok := a.cursorItem(); ok {
			call, staged := a.mut.StageDelete(it.Key())
			if !staged {
				return a, nil
			}
			a.refreshVisible()
			return a, a.mutationCmd(call)
		}
	case key.Matches(msg, k.NewItem):
		if !a.ready {
			return a, nil
		}
		return a, a.createItemCmd(api.ItemFields{
			"type":        string(ledger.Expense),
			"description": "New item",
			"value":       0,
			"date":        ledger.Today(),
		})
	}
	return a, nil
}

func (a *App) beginEdit(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	it, ok := a.cursorItem()
	if !ok {
		return a, nil
	}
	a.editKey = it.Key()
	a.mode = mode
	a.input.Placeholder = placeholder
	switch mode {
	case modeEditValue:
		a.input.SetValue(it.Value.String())
	case modeEditDesc:
		a.input.SetValue(it.Description)
	case modeEditDate:
		a.input.SetValue(it.Date)
	}
	a.input.CursorEnd()
	a.input.Focus()
	return a, nil
}

func (a *App) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys

	if a.mode == modePickCategory || a.mode == modePickBank {
		entries := a.pickerEntries()
		switch {
		case key.Matches(msg, k.Cancel):
			a.mode = modeNormal
		case key.Matches(msg, k.Up):
			if a.pickIdx > 0 {
				a.pickIdx--
			}
		case key.Matches(msg, k.Down):
			if a.pickIdx < len(entries)-1 {
				a.pickIdx++
			}
		case key.Matches(msg, k.Confirm):
			return a.commitPick(entries)
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Cancel):
		if a.mode == modeSearch {
			a.filters.Search = ""
			a.refreshVisible()
		}
		a.mode = modeNormal
		a.input.Blur()
		return a, nil
	case key.Matches(msg, k.Confirm):
		return a.commitInput()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.mode == modeSearch {
		a.filters.Search = a.input.Value()
		a.refreshVisible()
	}
	return a, cmd
}

func (a *App) commitInput() (tea.Model, tea.Cmd) {
	value := a.input.Value()

	if a.mode == modeNewSheet || a.mode == modeRenameSheet {
		return a.commitSheetName(value)
	}

	mode := a.mode
	a.mode = modeNormal
	a.input.Blur()

	if mode == modeSearch {
		a.filters.Search = value
		a.refreshVisible()
		return a, nil
	}

	var fields api.ItemFields
	switch mode {
	case modeEditValue:
		fields = api.ItemFields{"value": ledger.ParseAmount(value)}
	case modeEditDesc:
		fields = api.ItemFields{"description": value}
	case modeEditDate:
		date := ledger.NormalizeDate(value)
		if date == "" {
			a.setStatus("unrecognized date: " + value)
			return a, nil
		}
		fields = api.ItemFields{"date": date}
	default:
		return a, nil
	}

	call, staged := a.mut.StageUpdate(a.editKey, fields)
	if !staged {
		a.setStatus("item is gone")
		return a, nil
	}
	a.refreshVisible()
	return a, a.mutationCmd(call)
}

// commitSheetName validates and submits a sheet create/rename. A missing
// name is a validation problem the user can fix in place, so it surfaces
// as a warning and keeps the prompt open instead of failing the call.
func (a *App) commitSheetName(value string) (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(value)
	if name == "" {
		a.setWarning("sheet name is required")
		return a, nil
	}

	mode := a.mode
	a.mode = modeNormal
	a.input.Blur()

	if mode == modeNewSheet {
		now := time.Now()
		return a, a.createSheetCmd(api.SheetParams{
			Name:  name,
			Month: int(now.Month()),
			Year:  now.Year(),
		})
	}
	params := api.SheetParams{
		Name:           a.view.Sheet.Name,
		Description:    a.view.Sheet.Description,
		Month:          a.view.Sheet.Month,
		Year:           a.view.Sheet.Year,
		InitialBalance: a.view.InitialBalance,
	}
	params.Name = name
	return a, a.renameSheetCmd(a.view.Sheet.ID, params)
}

type pickerEntry struct {
	id    int
	label string
}

// pickerEntries builds the modal list, with a leading "clear" entry that
// resets the foreign key.
func (a *App) pickerEntries() []pickerEntry {
	entries := []pickerEntry{{id: 0, label: "(none)"}}
	if a.mode == modePickBank {
		for _, b := range a.view.Banks {
			entries = append(entries, pickerEntry{id: b.ID, label: b.Name})
		}
		return entries
	}
	for _, c := range a.view.Categories {
		label := c.Name
		if c.Icon != "" {
			label = c.Icon + " " + c.Name
		}
		entries = append(entries, pickerEntry{id: c.ID, label: label})
	}
	return entries
}

func (a *App) commitPick(entries []pickerEntry) (tea.Model, tea.Cmd) {
	if a.pickIdx < 0 || a.pickIdx >= len(entries) {
		a.mode = modeNormal
		return a, nil
	}
	field := "category_id"
	if a.mode == modePickBank {
		field = "bank_id"
	}
	a.mode = modeNormal

	call, staged := a.mut.StageUpdate(a.editKey, api.ItemFields{field: entries[a.pickIdx].id})
	if !staged {
		a.setStatus("item is gone")
		return a, nil
	}
	a.refreshVisible()
	return a, a.mutationCmd(call)
}

func nextSortField(f ledger.SortField) ledger.SortField {
	switch f {
	case ledger.SortByDate:
		return ledger.SortByValue
	case ledger.SortByValue:
		return ledger.SortByCategory
	case ledger.SortByCategory:
		return ledger.SortByBank
	case ledger.SortByBank:
		return ledger.SortByType
	case ledger.SortByType:
		return ledger.SortByOrigin
	default:
		return ledger.SortByDate
	}
}

func nextPaidFilter(f ledger.PaidFilter) ledger.PaidFilter {
	switch f {
	case ledger.PaidAny:
		return ledger.PaidYes
	case ledger.PaidYes:
		return ledger.PaidNo
	default:
		return ledger.PaidAny
	}
}

func nextTypeFilter(t ledger.ItemType) ledger.ItemType {
	switch t {
	case "":
		return ledger.Expense
	case ledger.Expense:
		return ledger.Income
	default:
		return ""
	}
}
