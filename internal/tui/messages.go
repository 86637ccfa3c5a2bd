package tui

import (
	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/service"
)

// Loader and mutation outcomes arrive as typed messages. View loads carry
// the token issued when the load started; a mismatch means the user moved
// on and the payload is stale.

type sheetsLoadedMsg struct {
	sheets []api.Sheet
	err    error
}

type viewLoadedMsg struct {
	token string
	view  service.SheetView
	err   error
}

type mutationDoneMsg struct {
	res service.Result
}

type itemCreatedMsg struct {
	payload []byte
	err     error
}

type sheetSavedMsg struct {
	sheet   api.Sheet
	created bool
	err     error
}

type sheetDeletedMsg struct {
	id  int
	err error
}

type savedExpiredMsg struct {
	key string
}

type logoutDoneMsg struct {
	err error
}

type errMsg struct {
	err error
}
