package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tasklite/internal/auth"
	"github.com/jask/tasklite/internal/config"
	"github.com/jask/tasklite/internal/database"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/storage"
	"github.com/jask/tasklite/internal/task"
	"github.com/jask/tasklite/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.SaveIfMissing(cfg); err != nil {
		log.Printf("warn: could not seed config file: %v", err)
	}

	logger, closer, err := logging.NewFileLogger(cfg.Log.Path)
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	defer closer.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	records := storage.New(db, logger)

	stores := tui.Stores{
		Accounts: auth.NewAccountStore(records, logger),
		Sessions: auth.NewSessionManager(records, logger),
		Tasks:    task.NewStore(records, logger),
	}

	p := tea.NewProgram(tui.New(ctx, cfg, logger, stores), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
