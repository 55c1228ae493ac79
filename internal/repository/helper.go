package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx. Write
// methods that must participate in a caller's transaction accept it, so a
// ledger insert and its auto-generated cash flows commit atomically.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors validation.ParseTime — both are intentionally kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			// SQLite CURRENT_TIMESTAMP emits this layout
			returnTime, err = time.Parse("2006-01-02 15:04:05", str)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
			}
		}
	}
	return returnTime.UTC(), nil
}

// DateOnly formats t for storage in DATE columns.
func DateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
