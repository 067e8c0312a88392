package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Name is the driver name used to locate its schema ("sqlite" or "postgres").
	Name() string

	// Holiday model related methods.
	UpsertHoliday(ctx context.Context, upsert *Holiday) (*Holiday, error)
	ListHolidays(ctx context.Context, find *FindHoliday) ([]*Holiday, error)
	DeleteHolidays(ctx context.Context, year string) error
}
