package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotelier/internal/domain"
)

// ErrCorruptSnapshot is returned when the snapshot file exists but
// cannot be read back as a booking list.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// SnapshotRepository persists the booking list as a single-table sqlite
// database. Save replaces every row in one transaction; Restore reads
// them back in insertion order, so a save/restore pair round-trips the
// list exactly.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type bookingModel struct {
	Seq           int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	BookingID     string    `gorm:"column:booking_id;uniqueIndex"`
	GuestName     *string   `gorm:"column:guest_name"`
	Room          string    `gorm:"column:room"`
	Arrival       time.Time `gorm:"column:arrival"`
	Departure     time.Time `gorm:"column:departure"`
	Service       string    `gorm:"column:service"`
	CustomService *string   `gorm:"column:custom_service"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) domain.Booking {
	var guest string
	if m.GuestName != nil {
		guest = *m.GuestName
	}
	var custom domain.ServiceSchedule
	if m.CustomService != nil {
		custom = domain.ServiceSchedule(*m.CustomService)
	}

	return domain.Booking{
		ID:            m.BookingID,
		GuestName:     guest,
		Room:          m.Room,
		Arrival:       m.Arrival.UTC(),
		Departure:     m.Departure.UTC(),
		Service:       domain.ServiceSchedule(m.Service),
		CustomService: custom,
	}
}

func toBookingModel(b domain.Booking) bookingModel {
	var guest *string
	if b.GuestName != "" {
		v := b.GuestName
		guest = &v
	}
	var custom *string
	if b.CustomService != "" {
		v := string(b.CustomService)
		custom = &v
	}

	return bookingModel{
		BookingID:     b.ID,
		GuestName:     guest,
		Room:          b.Room,
		Arrival:       b.Arrival,
		Departure:     b.Departure,
		Service:       string(b.Service),
		CustomService: custom,
	}
}

// Migrate creates the bookings table. A file that is not a sqlite
// database fails here and surfaces as a corrupt snapshot.
func (r *SnapshotRepository) Migrate() error {
	if err := r.db.AutoMigrate(&bookingModel{}); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}

// Save replaces the stored snapshot with bookings, preserving order.
func (r *SnapshotRepository) Save(bookings []domain.Booking) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&bookingModel{}).Error; err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		for _, b := range bookings {
			m := toBookingModel(b)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("write snapshot row %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// Restore reads the snapshot back in the order it was saved.
func (r *SnapshotRepository) Restore() ([]domain.Booking, error) {
	var models []bookingModel
	if err := r.db.Order("seq").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	bookings := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		bookings = append(bookings, toDomainBooking(m))
	}
	return bookings, nil
}
