package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id             INTEGER  PRIMARY KEY AUTOINCREMENT,
		name           TEXT     NOT NULL,
		contact        TEXT     NOT NULL,
		email          TEXT     NOT NULL DEFAULT '',
		company        TEXT     NOT NULL DEFAULT '',
		purpose        TEXT     NOT NULL,
		nda_signed     BOOLEAN  NOT NULL DEFAULT 0,
		photo          TEXT     NOT NULL DEFAULT 'placeholder.png',
		entry_method   TEXT     NOT NULL DEFAULT 'manual',
		liveness_check TEXT     NOT NULL DEFAULT 'N/A',
		checkin_time   DATETIME NOT NULL,
		checkout_time  DATETIME,
		status         TEXT     NOT NULL CHECK (status IN ('Checked In', 'Checked Out')),
		CHECK ((status = 'Checked Out') = (checkout_time IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_contact_status ON visitors(contact, status)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id        INTEGER  PRIMARY KEY AUTOINCREMENT,
		type      TEXT     NOT NULL CHECK (type IN ('help', 'report', 'suggest')),
		name      TEXT     NOT NULL DEFAULT '',
		email     TEXT     NOT NULL DEFAULT '',
		message   TEXT     NOT NULL,
		timestamp DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS preregistrations (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		name         TEXT     NOT NULL,
		contact      TEXT     NOT NULL,
		email        TEXT     NOT NULL DEFAULT '',
		company      TEXT     NOT NULL DEFAULT '',
		purpose      TEXT     NOT NULL,
		nda_signed   BOOLEAN  NOT NULL DEFAULT 0,
		visit_date   TEXT     NOT NULL,
		visit_time   TEXT     NOT NULL,
		status       TEXT     NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'declined')),
		submitted_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_preregistrations_status ON preregistrations(status)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
