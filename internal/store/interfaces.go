package store

import (
	"hotelier/internal/domain"
	"hotelier/internal/rules"
)

type Importer interface {
	Parse(path string) ([]domain.Booking, error)
}

type RuleStore interface {
	Load() error
	Get(id string) (rules.Override, bool)
	Update(id string, o rules.Override) error
	Remove(id string) bool
	Save() error
}

type SnapshotRepository interface {
	Save(bookings []domain.Booking) error
	Restore() ([]domain.Booking, error)
}
