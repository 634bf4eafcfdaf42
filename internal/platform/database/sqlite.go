package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (and creates when missing) the sqlite file at path. A
// "file:" prefix is accepted, ":memory:" gives a private in-memory database.
func OpenSQLite(path string, maxConns int) (*sql.DB, error) {
	dsn := strings.TrimPrefix(path, "file:")
	if dsn == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		dsn = fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dsn)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if maxConns < 1 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	if !strings.HasPrefix(dsn, ":memory:") {
		// an in-memory database lives only as long as its connection
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
