package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/app"
	"github.com/taskflow/tui/internal/credential"
	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/notify"
	"github.com/taskflow/tui/internal/realtime"
	"github.com/taskflow/tui/internal/session"
	"github.com/taskflow/tui/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The TUI owns stdout, so the standard logger goes to a file.
	logFile, err := tea.LogToFile(
		filepath.Join(os.TempDir(), "taskflow.log"), "taskflow",
	)
	if err == nil {
		defer logFile.Close()
	}

	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	// First run: materialize the defaults so users have a file to edit.
	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		if saveErr := model.SaveConfig(cfgPath, cfg); saveErr != nil {
			log.Printf("writing default config: %v", saveErr)
		}
	}

	cachePath := model.DefaultCachePath()
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	// A nil Store interface means no cache; the views fall back to
	// server-only loads.
	var cache store.Store
	if sqlStore, err := store.NewSQLiteStore(cachePath); err != nil {
		log.Printf("opening cache at %s: %v", cachePath, err)
	} else {
		cache = sqlStore
		defer sqlStore.Close()
	}

	client := api.NewClient(cfg.Server.BaseURL)
	if token := credential.AccessToken(); token != "" {
		client.SetToken(token)
	}

	rt := realtime.New(cfg.Server.WebSocketURL(), nil)
	inbox := notify.NewStore()
	binder := session.NewBinder(rt, inbox, cfg.Display.StatusPollInterval())

	program := tea.NewProgram(
		app.New(client, cache, rt, inbox, binder),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	binder.Stop()
	return nil
}
