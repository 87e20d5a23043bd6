// Package report filters the booking list into daily and weekly job
// sheets for housekeeping. It never mutates the store: every query works
// on a fresh copy of the current snapshot.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"hotelier/internal/domain"
)

const (
	dateLayout = "02/01/2006"
	sheetWidth = 30
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Task is the housekeeping job for one room on one day.
type Task string

const (
	TaskGeneralClean Task = "General clean"
	TaskCheckOut     Task = "Check-out"
	TaskTowels       Task = "Towels"
	TaskTowelsLinens Task = "Towels/Linens"
)

type BookingSource interface {
	Bookings() []domain.Booking
}

type Formatter struct {
	src BookingSource
}

func New(src BookingSource) *Formatter { return &Formatter{src: src} }

// JobsFor returns the bookings whose stay includes day, ordered by room
// reference. Each call builds a fresh slice, so the result is finite and
// restartable.
func (f *Formatter) JobsFor(day time.Time) []domain.Booking {
	jobs := make([]domain.Booking, 0)
	for _, b := range f.src.Bookings() {
		if b.Covers(day) {
			jobs = append(jobs, b)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Room != jobs[j].Room {
			return jobs[i].Room < jobs[j].Room
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}

// DayJobs groups one day's jobs inside a weekly sheet.
type DayJobs struct {
	Date time.Time
	Jobs []domain.Booking
}

// JobsForWeek returns the jobs for the 7 days starting at start, one
// entry per day.
func (f *Formatter) JobsForWeek(start time.Time) []DayJobs {
	week := make([]DayJobs, 0, 7)
	for i := 0; i < 7; i++ {
		day := domain.DateOf(start).AddDate(0, 0, i)
		week = append(week, DayJobs{Date: day, Jobs: f.JobsFor(day)})
	}
	return week
}

// AllJobs returns the full booking list in insertion order.
func (f *Formatter) AllJobs() []domain.Booking {
	return f.src.Bookings()
}

// TaskFor derives the housekeeping task for a booking on a given day:
// a general clean on arrival, check-out on departure, and in between the
// towels / towels+linens alternation at the booking's service cadence.
func TaskFor(b domain.Booking, day time.Time) (Task, bool) {
	svc := b.EffectiveService()
	if svc.Disabled() || !b.Covers(day) {
		return "", false
	}

	d := domain.DateOf(day)
	days := int(d.Sub(domain.DateOf(b.Arrival)).Hours() / 24)
	n := svc.Interval()

	switch {
	case d.Equal(domain.DateOf(b.Arrival)):
		return TaskGeneralClean, true
	case d.Equal(domain.DateOf(b.Departure)):
		return TaskCheckOut, true
	case days%(2*n) == n:
		return TaskTowels, true
	case days%(2*n) == 0 && days != 0:
		return TaskTowelsLinens, true
	default:
		return "", false
	}
}

// RenderDay renders the printable job sheet for one day: a starred
// 30-column box with one deduplicated "room: task" line per job.
func (f *Formatter) RenderDay(day time.Time) string {
	header := fmt.Sprintf("%s%s%s", strings.Repeat("*", 10), domain.DateOf(day).Format(dateLayout), strings.Repeat("*", 10))

	var lines []string
	seen := map[string]bool{}
	for _, b := range f.JobsFor(day) {
		task, ok := TaskFor(b, day)
		if !ok {
			continue
		}
		line := fmt.Sprintf("* %s: %s", b.Room, task)
		if seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line+padding(line))
	}

	out := []string{headerStyle.Render(header)}
	out = append(out, lines...)
	out = append(out, strings.Repeat("*", sheetWidth))
	return strings.Join(out, "\n")
}

// RenderWeek renders seven daily sheets starting at start.
func (f *Formatter) RenderWeek(start time.Time) string {
	sheets := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		sheets = append(sheets, f.RenderDay(domain.DateOf(start).AddDate(0, 0, i)))
	}
	return strings.Join(sheets, "\n")
}

// RenderAll lists every booking in insertion order.
func (f *Formatter) RenderAll() string {
	lines := []string{headerStyle.Render("All current bookings:")}
	for _, b := range f.AllJobs() {
		lines = append(lines, fmt.Sprintf(
			"%s  room %s  %s -> %s  service %s",
			b.ID, b.Room,
			b.Arrival.Format(dateLayout), b.Departure.Format(dateLayout),
			b.EffectiveService(),
		))
	}
	return strings.Join(lines, "\n")
}

// padding right-aligns the closing asterisk of a job line to the sheet
// width, as the printed sheets have always looked.
func padding(line string) string {
	n := sheetWidth - len(line) - 1
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n) + "*"
}
