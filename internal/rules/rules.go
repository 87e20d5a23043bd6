// Package rules keeps the per-booking housekeeping overrides. They live
// in a small JSON file next to the snapshot: keys are booking ids,
// values are either a bare service schedule string or an object that can
// additionally split the imported stay into several intervals.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"hotelier/internal/domain"
)

var ErrMalformed = errors.New("malformed rules file")

const dateLayout = "02/01/2006"

// Stay is one interval of a split booking, both ends at day granularity.
type Stay struct {
	Arrival   time.Time
	Departure time.Time
}

// Override is the JSON value for one booking id.
type Override struct {
	Service domain.ServiceSchedule
	Stays   []Stay
}

func (o *Override) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Service = domain.ServiceSchedule(s)
		o.Stays = nil
		return nil
	}

	var obj struct {
		Service string     `json:"service"`
		Stays   [][]string `json:"stays"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	o.Service = domain.ServiceSchedule(obj.Service)
	o.Stays = nil
	for _, pair := range obj.Stays {
		if len(pair) != 2 {
			return fmt.Errorf("stay entry must be an [arrival, departure] pair, got %d elements", len(pair))
		}
		arrival, err := time.Parse(dateLayout, pair[0])
		if err != nil {
			return fmt.Errorf("stay arrival %q: %w", pair[0], err)
		}
		departure, err := time.Parse(dateLayout, pair[1])
		if err != nil {
			return fmt.Errorf("stay departure %q: %w", pair[1], err)
		}
		if arrival.After(departure) {
			return fmt.Errorf("stay arrival %s after departure %s", pair[0], pair[1])
		}
		o.Stays = append(o.Stays, Stay{Arrival: domain.DateOf(arrival), Departure: domain.DateOf(departure)})
	}
	return nil
}

func (o Override) MarshalJSON() ([]byte, error) {
	if len(o.Stays) == 0 {
		return json.Marshal(string(o.Service))
	}

	obj := struct {
		Service string     `json:"service,omitempty"`
		Stays   [][]string `json:"stays"`
	}{Service: string(o.Service)}
	for _, s := range o.Stays {
		obj.Stays = append(obj.Stays, []string{
			s.Arrival.Format(dateLayout),
			s.Departure.Format(dateLayout),
		})
	}
	return json.Marshal(obj)
}

// Store owns the in-memory override mapping and its JSON file.
type Store struct {
	path      string
	overrides map[string]Override
}

func New(path string) *Store {
	return &Store{path: path, overrides: map[string]Override{}}
}

// Load reads the rules file. A missing file is an empty mapping. A
// malformed file also leaves the mapping empty, but the error is
// returned so the caller can report the recovery.
func (s *Store) Load() error {
	s.overrides = map[string]Override{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	var parsed map[string]Override
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed != nil {
		s.overrides = parsed
	}
	return nil
}

// Save writes the mapping back to disk. Write failures surface.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.overrides, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	return nil
}

func (s *Store) Get(id string) (Override, bool) {
	o, ok := s.overrides[id]
	return o, ok
}

// Update sets the override for a booking id. The id must be non-empty;
// the override itself is not validated further.
func (s *Store) Update(id string, o Override) error {
	if id == "" {
		return errors.New("empty booking id")
	}
	s.overrides[id] = o
	return nil
}

// Remove drops the override for id, reporting whether one existed.
func (s *Store) Remove(id string) bool {
	_, ok := s.overrides[id]
	delete(s.overrides, id)
	return ok
}

func (s *Store) Len() int { return len(s.overrides) }
