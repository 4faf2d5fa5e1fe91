package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := ensureCommandColumns(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// ensureCommandColumns adds columns introduced after the first schema.
func ensureCommandColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(commands)")
	if err != nil {
		return err
	}
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			_ = rows.Close()
			return err
		}
		cols[name] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if !cols["enabled"] {
		if _, err := db.Exec("ALTER TABLE commands ADD COLUMN enabled INTEGER NOT NULL DEFAULT 1"); err != nil {
			return err
		}
	}
	if !cols["updated_at"] {
		if _, err := db.Exec("ALTER TABLE commands ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	return nil
}
