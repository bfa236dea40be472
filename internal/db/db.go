package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

// Open opens a SQLite database connection and configures pragmas.
//
// An in-memory database only lives as long as its connection, so the pool is
// pinned to a single connection that is never recycled.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}
