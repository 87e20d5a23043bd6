package domain

import (
	"strconv"
	"time"
)

// ServiceSchedule describes how often a room is serviced during a stay.
// "n" disables servicing entirely, any positive integer is the cadence in
// days ("1" is the hotel default).
type ServiceSchedule string

const (
	ServiceNever   ServiceSchedule = "n"
	ServiceDefault ServiceSchedule = "1"
)

func (s ServiceSchedule) Disabled() bool { return s == ServiceNever }

// Interval returns the cadence in days. Unset or unparseable schedules
// fall back to the default cadence of one day.
func (s ServiceSchedule) Interval() int {
	n, err := strconv.Atoi(string(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (s ServiceSchedule) Valid() bool {
	if s == "" || s == ServiceNever {
		return true
	}
	n, err := strconv.Atoi(string(s))
	return err == nil && n >= 1
}

type Booking struct {
	ID            string          `json:"id" validate:"required"`
	GuestName     string          `json:"guest_name,omitempty"`
	Room          string          `json:"room" validate:"required"`
	Arrival       time.Time       `json:"arrival" validate:"required"`
	Departure     time.Time       `json:"departure" validate:"required"`
	Service       ServiceSchedule `json:"service"`
	CustomService ServiceSchedule `json:"custom_service,omitempty"`
}

// EffectiveService is the schedule housekeeping actually works to: the
// custom override when present, the base service otherwise.
func (b Booking) EffectiveService() ServiceSchedule {
	if b.CustomService != "" {
		return b.CustomService
	}
	if b.Service != "" {
		return b.Service
	}
	return ServiceDefault
}

// Covers reports whether day falls inside the stay, both ends inclusive.
func (b Booking) Covers(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(b.Arrival)) && !d.After(DateOf(b.Departure))
}

// Overlaps reports whether the half-open interval [arrival, departure)
// collides with this booking's stay. Back-to-back stays where one guest
// departs the day another arrives do not overlap.
func (b Booking) Overlaps(arrival, departure time.Time) bool {
	a, d := DateOf(arrival), DateOf(departure)
	return a.Before(DateOf(b.Departure)) && d.After(DateOf(b.Arrival))
}

// DateOf truncates t to midnight UTC so stays compare at day granularity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
