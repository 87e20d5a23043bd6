// Seeds a demo snapshot and rules file so the tool can be tried without
// a real vendor export.
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"hotelier/internal/config"
	"hotelier/internal/database"
	"hotelier/internal/domain"
	"hotelier/internal/repository"
	"hotelier/internal/rules"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stderr)

	db, err := database.Open(cfg.SnapshotPath)
	if err != nil {
		logger.Fatal("open snapshot database", "err", err)
	}

	snapshots := repository.NewSnapshotRepository(db)
	if err := snapshots.Migrate(); err != nil {
		logger.Fatal("prepare snapshot database", "err", err)
	}

	today := domain.DateOf(time.Now())
	demo := []domain.Booking{
		{ID: "101", GuestName: "A. Papadopoulos", Room: "R11", Arrival: today, Departure: today.AddDate(0, 0, 4), Service: domain.ServiceDefault},
		{ID: "102", GuestName: "M. Schneider", Room: "R12", Arrival: today.AddDate(0, 0, 1), Departure: today.AddDate(0, 0, 8), Service: domain.ServiceDefault},
		{ID: "103", GuestName: "K. Ionescu", Room: "R21", Arrival: today.AddDate(0, 0, -2), Departure: today.AddDate(0, 0, 3), Service: domain.ServiceDefault},
	}

	if err := snapshots.Save(demo); err != nil {
		logger.Fatal("write demo snapshot", "err", err)
	}

	ruleStore := rules.New(cfg.RulesPath)
	if err := ruleStore.Update("102", rules.Override{Service: "2"}); err != nil {
		logger.Fatal("seed rules", "err", err)
	}
	if err := ruleStore.Update("103", rules.Override{Service: domain.ServiceNever}); err != nil {
		logger.Fatal("seed rules", "err", err)
	}
	if err := ruleStore.Save(); err != nil {
		logger.Fatal("write rules file", "err", err)
	}

	logger.Info("demo data written", "snapshot", cfg.SnapshotPath, "rules", cfg.RulesPath, "bookings", len(demo))
}
