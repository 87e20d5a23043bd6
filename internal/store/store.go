// Package store owns the booking list for the process lifetime. Every
// mutation goes through it, so the rest of the app never touches shared
// state directly.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"hotelier/internal/domain"
	"hotelier/internal/pkg/validator"
	"hotelier/internal/rules"
)

type Store struct {
	rooms     []string
	importer  Importer
	rules     RuleStore
	snapshots SnapshotRepository
	logger    *log.Logger

	bookings []domain.Booking
}

func New(rooms []string, imp Importer, ruleStore RuleStore, snapshots SnapshotRepository, logger *log.Logger) *Store {
	upper := make([]string, 0, len(rooms))
	for _, r := range rooms {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(r)))
	}

	return &Store{
		rooms:     upper,
		importer:  imp,
		rules:     ruleStore,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Bookings returns a copy of the current list in insertion order.
func (s *Store) Bookings() []domain.Booking {
	out := make([]domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

func (s *Store) Rooms() []string {
	out := make([]string, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// LoadBookings imports the vendor export at path, replaces the booking
// list wholesale, overlays the custom service rules and persists the
// result. A malformed rules file is recovered to an empty mapping and
// only logged, matching the documented recovery.
func (s *Store) LoadBookings(path string) (int, error) {
	imported, err := s.importer.Parse(path)
	if err != nil {
		return 0, err
	}

	if err := s.rules.Load(); err != nil {
		if !errors.Is(err, rules.ErrMalformed) {
			return 0, err
		}
		s.logger.Warn("rules file is malformed, continuing with no overrides", "err", err)
	}

	list := make([]domain.Booking, 0, len(imported))
	seen := make(map[string]bool, len(imported))
	for _, b := range imported {
		for _, split := range s.expandStays(b) {
			if seen[split.ID] {
				return 0, fmt.Errorf("%w in export: %s", ErrDuplicateID, split.ID)
			}
			seen[split.ID] = true
			list = append(list, split)
		}
	}

	s.bookings = list
	s.applyCustomServices()

	if err := s.Save(); err != nil {
		return 0, err
	}

	s.logger.Info("bookings loaded from export", "path", path, "bookings", len(s.bookings))
	return len(s.bookings), nil
}

// expandStays splits an imported booking into one booking per stay
// interval when a split rule exists for its id. Split bookings get a
// "#n" suffix from the second stay on so ids stay unique in the store.
func (s *Store) expandStays(b domain.Booking) []domain.Booking {
	o, ok := s.rules.Get(b.ID)
	if !ok || len(o.Stays) == 0 {
		return []domain.Booking{b}
	}

	out := make([]domain.Booking, 0, len(o.Stays))
	for i, stay := range o.Stays {
		split := b
		split.Arrival = stay.Arrival
		split.Departure = stay.Departure
		if i > 0 {
			split.ID = fmt.Sprintf("%s#%d", b.ID, i+1)
		}
		out = append(out, split)
	}
	return out
}

// AddBooking appends a booking after the manual-entry checks: known
// room, strictly positive stay length, unique id, and no overlap with an
// existing booking for the same room. A blank id gets a generated one.
func (s *Store) AddBooking(b domain.Booking) (domain.Booking, error) {
	b.Room = strings.ToUpper(strings.TrimSpace(b.Room))
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Service == "" {
		b.Service = domain.ServiceDefault
	}
	b.Arrival = domain.DateOf(b.Arrival)
	b.Departure = domain.DateOf(b.Departure)

	if fields := validator.Validate(b); fields != nil {
		return domain.Booking{}, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	if !b.Service.Valid() || !b.CustomService.Valid() {
		return domain.Booking{}, ErrInvalidService
	}
	if !s.knownRoom(b.Room) {
		return domain.Booking{}, fmt.Errorf("%w: %s", ErrInvalidRoom, b.Room)
	}
	if !b.Departure.After(b.Arrival) {
		return domain.Booking{}, ErrInvalidStay
	}

	for _, existing := range s.bookings {
		if existing.ID == b.ID {
			return domain.Booking{}, fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
		}
		if existing.Room == b.Room && existing.Overlaps(b.Arrival, b.Departure) {
			return domain.Booking{}, fmt.Errorf("%w: %s", ErrRoomOccupied, b.Room)
		}
	}

	s.bookings = append(s.bookings, b)
	if err := s.Save(); err != nil {
		return domain.Booking{}, err
	}

	s.logger.Info("booking added", "id", b.ID, "room", b.Room)
	return b, nil
}

// ApplyCustomServices overlays the rule store onto the booking list:
// bookings with a service override get it, bookings without one fall
// back to their base service.
func (s *Store) ApplyCustomServices() {
	s.applyCustomServices()
}

func (s *Store) applyCustomServices() {
	for i := range s.bookings {
		o, ok := s.rules.Get(baseID(s.bookings[i].ID))
		if ok && o.Service != "" {
			s.bookings[i].CustomService = o.Service
		} else {
			s.bookings[i].CustomService = ""
		}
	}
}

// UpdateCustomService records a service override for the booking,
// persists the rules file and the snapshot, and re-applies overrides.
func (s *Store) UpdateCustomService(id string, svc domain.ServiceSchedule) error {
	if !svc.Valid() || svc == "" {
		return ErrInvalidService
	}
	if !s.hasBooking(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	o, _ := s.rules.Get(baseID(id))
	o.Service = svc
	if err := s.rules.Update(baseID(id), o); err != nil {
		return err
	}
	if err := s.rules.Save(); err != nil {
		return err
	}

	s.applyCustomServices()
	return s.Save()
}

// RemoveCustomService drops the booking's override so it reverts to the
// base service.
func (s *Store) RemoveCustomService(id string) error {
	if !s.hasBooking(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.rules.Remove(baseID(id))
	if err := s.rules.Save(); err != nil {
		return err
	}

	s.applyCustomServices()
	return s.Save()
}

// Save persists the booking list to the snapshot.
func (s *Store) Save() error {
	return s.snapshots.Save(s.bookings)
}

// Restore replaces the booking list with the snapshot's contents.
func (s *Store) Restore() error {
	list, err := s.snapshots.Restore()
	if err != nil {
		return err
	}
	s.bookings = list
	return nil
}

func (s *Store) knownRoom(room string) bool {
	for _, r := range s.rooms {
		if r == room {
			return true
		}
	}
	return false
}

func (s *Store) hasBooking(id string) bool {
	for _, b := range s.bookings {
		if b.ID == id {
			return true
		}
	}
	return false
}

// baseID strips the "#n" suffix of a split stay so every interval of a
// booking shares one rule entry.
func baseID(id string) string {
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return id[:i]
	}
	return id
}
