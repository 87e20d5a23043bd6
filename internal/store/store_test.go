package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotelier/internal/domain"
	"hotelier/internal/report"
	"hotelier/internal/rules"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Parse(path string) ([]domain.Booking, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(bookings []domain.Booking) error {
	args := m.Called(bookings)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Restore() ([]domain.Booking, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T, imp *MockImporter, snapshots *MockSnapshotRepository) (*Store, *rules.Store) {
	t.Helper()
	ruleStore := rules.New(filepath.Join(t.TempDir(), "rules.json"))
	require.NoError(t, ruleStore.Load())

	logger := log.New(io.Discard)
	return New([]string{"R11", "R12", "R21"}, imp, ruleStore, snapshots, logger), ruleStore
}

func TestStore_AddBooking_Success(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	b, err := st.AddBooking(domain.Booking{
		Room:      "r12",
		Arrival:   date(2024, 6, 1),
		Departure: date(2024, 6, 3),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID, "blank id must be generated")
	assert.Equal(t, "R12", b.Room, "room must be uppercased")
	assert.Equal(t, domain.ServiceDefault, b.Service)
	assert.Len(t, st.Bookings(), 1)
	snapshots.AssertCalled(t, "Save", mock.Anything)
}

func TestStore_AddBooking_DuplicateID(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	_, err := st.AddBooking(domain.Booking{ID: "101", Room: "R11", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3)})
	require.NoError(t, err)

	_, err = st.AddBooking(domain.Booking{ID: "101", Room: "R21", Arrival: date(2024, 7, 1), Departure: date(2024, 7, 3)})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, st.Bookings(), 1)
}

func TestStore_AddBooking_UnknownRoom(t *testing.T) {
	st, _ := newTestStore(t, nil, new(MockSnapshotRepository))

	_, err := st.AddBooking(domain.Booking{Room: "R99", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3)})
	assert.ErrorIs(t, err, ErrInvalidRoom)
}

func TestStore_AddBooking_DepartureNotAfterArrival(t *testing.T) {
	st, _ := newTestStore(t, nil, new(MockSnapshotRepository))

	_, err := st.AddBooking(domain.Booking{Room: "R12", Arrival: date(2024, 6, 3), Departure: date(2024, 6, 3)})
	assert.ErrorIs(t, err, ErrInvalidStay)
}

func TestStore_AddBooking_RoomOccupied(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	_, err := st.AddBooking(domain.Booking{Room: "R12", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 5)})
	require.NoError(t, err)

	_, err = st.AddBooking(domain.Booking{Room: "R12", Arrival: date(2024, 6, 4), Departure: date(2024, 6, 7)})
	assert.ErrorIs(t, err, ErrRoomOccupied)

	// the changeover day is free: one guest departs as the next arrives
	_, err = st.AddBooking(domain.Booking{Room: "R12", Arrival: date(2024, 6, 5), Departure: date(2024, 6, 7)})
	assert.NoError(t, err)
}

func TestStore_AddBooking_InvalidService(t *testing.T) {
	st, _ := newTestStore(t, nil, new(MockSnapshotRepository))

	_, err := st.AddBooking(domain.Booking{
		Room: "R12", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3),
		Service: "often",
	})
	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestStore_LoadBookings_ReplacesListAndAppliesRules(t *testing.T) {
	imported := []domain.Booking{
		{ID: "101", Room: "R11", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3), Service: domain.ServiceDefault},
		{ID: "102", Room: "R12", Arrival: date(2024, 6, 2), Departure: date(2024, 6, 9), Service: domain.ServiceDefault},
	}

	imp := new(MockImporter)
	imp.On("Parse", "export.xls").Return(imported, nil)
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)

	st, ruleStore := newTestStore(t, imp, snapshots)
	require.NoError(t, ruleStore.Update("102", rules.Override{Service: "2"}))
	require.NoError(t, ruleStore.Save())

	// a stale entry left over from a previous import
	_, err := st.AddBooking(domain.Booking{ID: "old", Room: "R21", Arrival: date(2024, 5, 1), Departure: date(2024, 5, 2)})
	require.NoError(t, err)

	count, err := st.LoadBookings("export.xls")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list := st.Bookings()
	require.Len(t, list, 2)
	assert.Equal(t, "101", list[0].ID)
	assert.Empty(t, list[0].CustomService)
	assert.Equal(t, domain.ServiceSchedule("2"), list[1].CustomService)
}

func TestStore_LoadBookings_SplitsStays(t *testing.T) {
	imported := []domain.Booking{
		{ID: "101", Room: "R11", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 10), Service: domain.ServiceDefault},
	}

	imp := new(MockImporter)
	imp.On("Parse", "export.xls").Return(imported, nil)
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)

	st, ruleStore := newTestStore(t, imp, snapshots)
	require.NoError(t, ruleStore.Update("101", rules.Override{
		Service: "2",
		Stays: []rules.Stay{
			{Arrival: date(2024, 6, 1), Departure: date(2024, 6, 4)},
			{Arrival: date(2024, 6, 6), Departure: date(2024, 6, 10)},
		},
	}))
	require.NoError(t, ruleStore.Save())

	count, err := st.LoadBookings("export.xls")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list := st.Bookings()
	require.Len(t, list, 2)
	assert.Equal(t, "101", list[0].ID)
	assert.Equal(t, "101#2", list[1].ID)
	assert.Equal(t, date(2024, 6, 4), list[0].Departure)
	assert.Equal(t, date(2024, 6, 6), list[1].Arrival)
	// both stays share the one rule entry
	assert.Equal(t, domain.ServiceSchedule("2"), list[0].CustomService)
	assert.Equal(t, domain.ServiceSchedule("2"), list[1].CustomService)
}

func TestStore_LoadBookings_MalformedRulesRecovers(t *testing.T) {
	imported := []domain.Booking{
		{ID: "101", Room: "R11", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3), Service: domain.ServiceDefault},
	}

	imp := new(MockImporter)
	imp.On("Parse", "export.xls").Return(imported, nil)
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)

	rulesPath := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(rulesPath, []byte("{broken"), 0o644))

	st := New([]string{"R11"}, imp, rules.New(rulesPath), snapshots, log.New(io.Discard))

	count, err := st.LoadBookings("export.xls")
	require.NoError(t, err, "malformed rules must not fail the import")
	assert.Equal(t, 1, count)
	assert.Empty(t, st.Bookings()[0].CustomService)
}

func TestStore_AddBooking_VisibleInDayJobs(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	b, err := st.AddBooking(domain.Booking{Room: "R12", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3)})
	require.NoError(t, err)

	jobs := report.New(st).JobsFor(b.Arrival)
	require.Len(t, jobs, 1)
	assert.Equal(t, b.ID, jobs[0].ID)
}

func TestStore_UpdateAndRemoveCustomService(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	b, err := st.AddBooking(domain.Booking{ID: "101", Room: "R12", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 5)})
	require.NoError(t, err)

	require.NoError(t, st.UpdateCustomService("101", "3"))
	assert.Equal(t, domain.ServiceSchedule("3"), st.Bookings()[0].EffectiveService())

	// removing the rule restores the base service
	require.NoError(t, st.RemoveCustomService("101"))
	assert.Equal(t, b.Service, st.Bookings()[0].EffectiveService())
	assert.Empty(t, st.Bookings()[0].CustomService)
}

func TestStore_UpdateCustomService_UnknownBooking(t *testing.T) {
	st, _ := newTestStore(t, nil, new(MockSnapshotRepository))
	assert.ErrorIs(t, st.UpdateCustomService("missing", "2"), ErrNotFound)
}

func TestStore_UpdateCustomService_InvalidSchedule(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Save", mock.Anything).Return(nil)
	st, _ := newTestStore(t, nil, snapshots)

	_, err := st.AddBooking(domain.Booking{ID: "101", Room: "R12", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 5)})
	require.NoError(t, err)

	assert.ErrorIs(t, st.UpdateCustomService("101", "soon"), ErrInvalidService)
}

func TestStore_Restore(t *testing.T) {
	saved := []domain.Booking{
		{ID: "101", Room: "R11", Arrival: date(2024, 6, 1), Departure: date(2024, 6, 3), Service: domain.ServiceDefault},
	}
	snapshots := new(MockSnapshotRepository)
	snapshots.On("Restore").Return(saved, nil)

	st, _ := newTestStore(t, nil, snapshots)
	require.NoError(t, st.Restore())
	assert.Equal(t, saved, st.Bookings())
}
