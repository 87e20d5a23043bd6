package main

import (
	"flag"
	"fmt"
	"time"

	"hotelier/internal/domain"
	"hotelier/internal/report"
	"hotelier/internal/store"
)

const dateLayout = "02/01/2006"

const usage = `usage: hotelier <command> [args]

commands:
  import <export.xls>                      load bookings from the vendor export
  add -room R12 -arrival DD/MM/YYYY -departure DD/MM/YYYY
      [-id ID] [-guest NAME] [-service N]  add a booking by hand
  set-service <id> <schedule>              override a booking's service (n, 1, 2, ...)
  clear-service <id>                       revert a booking to its base service
  jobs [DD/MM/YYYY]                        job sheet for a day (default today)
  week [DD/MM/YYYY]                        job sheets for 7 days (default from today)
  list                                     all bookings in insertion order
  save                                     write the snapshot
  restore                                  reload the booking list from the snapshot`

// run dispatches one command against the store, returning the text the
// caller should display. Each handler is a single synchronous call into
// the store's public operations.
func run(st *store.Store, f *report.Formatter, args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		if len(rest) != 1 {
			return "", fmt.Errorf("import needs exactly one export path")
		}
		count, err := st.LoadBookings(rest[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("imported %d bookings from %s", count, rest[0]), nil

	case "add":
		return runAdd(st, rest)

	case "set-service":
		if len(rest) != 2 {
			return "", fmt.Errorf("set-service needs a booking id and a schedule")
		}
		if err := st.UpdateCustomService(rest[0], domain.ServiceSchedule(rest[1])); err != nil {
			return "", err
		}
		return fmt.Sprintf("custom service for booking %s updated", rest[0]), nil

	case "clear-service":
		if len(rest) != 1 {
			return "", fmt.Errorf("clear-service needs a booking id")
		}
		if err := st.RemoveCustomService(rest[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("booking %s reverted to its base service", rest[0]), nil

	case "jobs":
		day, err := dayArg(rest)
		if err != nil {
			return "", err
		}
		return f.RenderDay(day), nil

	case "week":
		day, err := dayArg(rest)
		if err != nil {
			return "", err
		}
		return f.RenderWeek(day), nil

	case "list":
		return f.RenderAll(), nil

	case "save":
		if err := st.Save(); err != nil {
			return "", err
		}
		return "snapshot saved", nil

	case "restore":
		if err := st.Restore(); err != nil {
			return "", err
		}
		return fmt.Sprintf("snapshot restored, %d bookings", len(st.Bookings())), nil

	default:
		return "", fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func runAdd(st *store.Store, args []string) (string, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	id := fs.String("id", "", "booking id (generated when empty)")
	guest := fs.String("guest", "", "guest name")
	room := fs.String("room", "", "room reference")
	arrival := fs.String("arrival", "", "arrival date DD/MM/YYYY")
	departure := fs.String("departure", "", "departure date DD/MM/YYYY")
	service := fs.String("service", "1", "service schedule: n for never, or cadence in days")
	if err := fs.Parse(args); err != nil {
		return "", err
	}

	arrivalDate, err := time.Parse(dateLayout, *arrival)
	if err != nil {
		return "", fmt.Errorf("arrival date: %w", err)
	}
	departureDate, err := time.Parse(dateLayout, *departure)
	if err != nil {
		return "", fmt.Errorf("departure date: %w", err)
	}

	b, err := st.AddBooking(domain.Booking{
		ID:        *id,
		GuestName: *guest,
		Room:      *room,
		Arrival:   arrivalDate,
		Departure: departureDate,
		Service:   domain.ServiceSchedule(*service),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("booking %s added for room %s", b.ID, b.Room), nil
}

func dayArg(args []string) (time.Time, error) {
	switch len(args) {
	case 0:
		return domain.DateOf(time.Now()), nil
	case 1:
		day, err := time.Parse(dateLayout, args[0])
		if err != nil {
			return time.Time{}, fmt.Errorf("date: %w", err)
		}
		return day, nil
	default:
		return time.Time{}, fmt.Errorf("expected at most one date argument")
	}
}
