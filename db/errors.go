package db

import (
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/teranos/annograph/errors"
)

// ErrDatabaseClosed is returned when an operation runs on a closed database.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err indicates a closed connection, either
// ErrDatabaseClosed or the raw driver message, which cannot be wrapped at the
// source.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// IsConstraintViolation reports whether err is a SQLite constraint failure
// (unique, primary key or foreign key).
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
