// Package sqlite opens SQLite source databases through the driver compiled
// into the binary: pure Go modernc.org/sqlite by default, or
// mattn/go-sqlite3 with -tags cgo_sqlite. Callers never name a driver.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Driver identifies the compiled-in database/sql driver.
type Driver struct {
	Name    string `json:"name"`
	Type    string `json:"type"` // "purego" or "cgo"
	Package string `json:"package"`
}

// CurrentDriver returns the driver Open uses.
func CurrentDriver() Driver {
	return Driver{Name: driverName, Type: driverType, Package: driverPackage}
}

// Open opens a database with the compiled-in driver.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens the file at path read-only. A missing or unreadable
// file is an error here, not on the first query.
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := Open("file:" + path + "?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return db, nil
}
