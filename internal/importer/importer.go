// Package importer reads the vendor booking export. The file carries an
// .xls extension but is an HTML document with a single table, so it is
// parsed as markup rather than as a spreadsheet.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hotelier/internal/domain"
)

// Positional column map of the vendor table. The export has 24 columns;
// only these carry booking data.
const (
	colID        = 0
	colGuestName = 1
	colArrival   = 2
	colDeparture = 3
	colRoom      = 6

	minColumns = colRoom + 1
)

const dateLayout = "02/01/2006"

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// Parse reads the export at path and converts its rows into bookings.
// It is a pure read: no store state is touched.
func (a *Adapter) Parse(path string) ([]domain.Booking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return a.ParseReader(f)
}

// ParseReader parses the export from r. The first table row is the
// vendor banner and is skipped; every following row must have at least
// minColumns cells or the whole parse fails.
func (a *Adapter) ParseReader(r io.Reader) ([]domain.Booking, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table in export", ErrParse)
	}

	var bookings []domain.Booking
	var rowErr error

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || rowErr != nil {
			return
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		if cells.Length() < minColumns {
			rowErr = fmt.Errorf("%w: row %d has %d columns, want at least %d", ErrParse, i, cells.Length(), minColumns)
			return
		}

		b, err := rowToBooking(i, cells)
		if err != nil {
			rowErr = err
			return
		}
		bookings = append(bookings, b)
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return bookings, nil
}

func rowToBooking(row int, cells *goquery.Selection) (domain.Booking, error) {
	cell := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	id := cell(colID)
	if id == "" {
		return domain.Booking{}, fmt.Errorf("%w: row %d has an empty booking id", ErrParse, row)
	}

	arrival, err := time.Parse(dateLayout, cell(colArrival))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: row %d arrival %q: %v", ErrParse, row, cell(colArrival), err)
	}
	departure, err := time.Parse(dateLayout, cell(colDeparture))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: row %d departure %q: %v", ErrParse, row, cell(colDeparture), err)
	}
	if arrival.After(departure) {
		return domain.Booking{}, fmt.Errorf("%w: row %d arrival after departure", ErrParse, row)
	}

	room := strings.ToUpper(cell(colRoom))
	if room == "" {
		return domain.Booking{}, fmt.Errorf("%w: row %d has an empty room", ErrParse, row)
	}

	return domain.Booking{
		ID:        id,
		GuestName: cell(colGuestName),
		Room:      room,
		Arrival:   domain.DateOf(arrival),
		Departure: domain.DateOf(departure),
		Service:   domain.ServiceDefault,
	}, nil
}
