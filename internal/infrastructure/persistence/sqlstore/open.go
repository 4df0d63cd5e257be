package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect names the SQL flavour behind a connection
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// ParseURL resolves a database URL to a driver dialect and DSN.
// SQLite URLs follow the SQLAlchemy convention: sqlite:///relative.db and
// sqlite:////absolute.db. A bare file path also selects SQLite.
func ParseURL(databaseURL string) (Dialect, string, error) {
	switch {
	case databaseURL == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DialectPostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url has no path: %s", databaseURL)
		}
		return DialectSQLite, path, nil
	case strings.Contains(databaseURL, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme: %s", databaseURL)
	default:
		return DialectSQLite, databaseURL, nil
	}
}

// Open connects to the database named by databaseURL
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	if dialect == DialectSQLite {
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}
