package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clearsheet/clearsheet/internal/api"
	"github.com/clearsheet/clearsheet/internal/banks"
	"github.com/clearsheet/clearsheet/internal/config"
	"github.com/clearsheet/clearsheet/internal/logging"
	"github.com/clearsheet/clearsheet/internal/service"
	"github.com/clearsheet/clearsheet/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Token can arrive on the command line once; it gets persisted so the
	// next launch needs nothing.
	if len(os.Args) == 3 && os.Args[1] == "login" {
		if err := cfg.SetToken(os.Args[2]); err != nil {
			log.Fatalf("store token: %v", err)
		}
		fmt.Println("token stored")
		return
	}

	if err := cfg.RequireToken(); err != nil {
		if errors.Is(err, config.ErrNoToken) {
			fmt.Println("no API token configured.")
			fmt.Println("run: clearsheet login <token>")
			fmt.Println("or set CLEARSHEET_API_TOKEN.")
			os.Exit(1)
		}
		log.Fatalf("token: %v", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := logging.NewFile(config.LogPath())
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	defer closeLog()

	registry, err := banks.LoadOrInit(config.BanksPath())
	if err != nil {
		logger.Warn().Err(err).Msg("bank table unreadable, using built-in defaults")
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Token, logger)
	loader := &service.Loader{API: client, Log: logger}
	mutator := service.NewMutator(client, logger)

	p := tea.NewProgram(
		tui.New(&cfg, logger, client, loader, mutator, registry),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
