// Package sqlite holds the on-device mirror of tracker records. The mirror
// keeps the last written row per (user, date) so that tracker reads survive
// an unreachable remote backend.
package sqlite

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const schema = `
CREATE TABLE IF NOT EXISTS tracker_records (
	user_id         TEXT     NOT NULL,
	date            TEXT     NOT NULL,
	weight          REAL     NOT NULL DEFAULT 0,
	water_intake    INTEGER  NOT NULL DEFAULT 0,
	calories_intake REAL     NOT NULL DEFAULT 0,
	updated_at      DATETIME NOT NULL,
	PRIMARY KEY (user_id, date)
);`

// Open connects to the SQLite file at path (":memory:" works for tests) and
// creates the schema if needed.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker mirror %q: %w", path, err)
	}
	// SQLite serialises writers anyway; one connection also keeps a
	// ":memory:" database from being split across pool connections.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tracker mirror schema: %w", err)
	}
	log.Printf("INFO: Tracker mirror ready at %s", path)
	return db, nil
}
