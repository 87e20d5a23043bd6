package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"hotelier/internal/config"
	"hotelier/internal/database"
	"hotelier/internal/importer"
	"hotelier/internal/report"
	"hotelier/internal/repository"
	"hotelier/internal/rules"
	"hotelier/internal/store"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stderr)
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	db, err := database.Open(cfg.SnapshotPath)
	if err != nil {
		logger.Fatal("open snapshot database", "path", cfg.SnapshotPath, "err", err)
	}

	snapshots := repository.NewSnapshotRepository(db)
	if err := snapshots.Migrate(); err != nil {
		logger.Fatal("prepare snapshot database", "path", cfg.SnapshotPath, "err", err)
	}

	ruleStore := rules.New(cfg.RulesPath)
	if err := ruleStore.Load(); err != nil {
		logger.Warn("rules file is malformed, continuing with no overrides", "path", cfg.RulesPath, "err", err)
	}

	st := store.New(cfg.Rooms, importer.New(), ruleStore, snapshots, logger)
	if err := st.Restore(); err != nil {
		logger.Fatal("restore snapshot", "path", cfg.SnapshotPath, "err", err)
	}

	out, err := run(st, report.New(st), os.Args[1:])
	if err != nil {
		logger.Fatal("command failed", "err", err)
	}
	if out != "" {
		fmt.Println(out)
	}
}
