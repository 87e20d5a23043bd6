package database

import (
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Open opens the snapshot database at path. The pure-Go sqlite driver is
// used so the tool builds without cgo on any desktop.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        path,
		}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
}
