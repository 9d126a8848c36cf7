package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "visitors.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "visitors.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "visitors.db")
				d, err := Open(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := Open(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestWALMode(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "visitors table exists",
			table: "visitors",
			cols: []string{"id", "name", "contact", "email", "company", "purpose", "nda_signed", "photo",
				"entry_method", "liveness_check", "checkin_time", "checkout_time", "status"},
		},
		{
			name:  "feedback table exists",
			table: "feedback",
			cols:  []string{"id", "type", "name", "email", "message", "timestamp"},
		},
		{
			name:  "preregistrations table exists",
			table: "preregistrations",
			cols: []string{"id", "name", "contact", "email", "company", "purpose", "nda_signed",
				"visit_date", "visit_time", "status", "submitted_at"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestVisitorStatusConstraint(t *testing.T) {
	d := openTestDB(t)

	insert := `INSERT INTO visitors (name, contact, purpose, checkin_time, checkout_time, status) VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()

	tests := []struct {
		name     string
		status   string
		checkout interface{}
		wantErr  bool
	}{
		{"checked in without checkout time", "Checked In", nil, false},
		{"checked out with checkout time", "Checked Out", now, false},
		{"checked in with checkout time", "Checked In", now, true},
		{"checked out without checkout time", "Checked Out", nil, true},
		{"unknown status", "Lost", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Exec(insert, "Alice", "9876543210", "Meeting", now, tt.checkout, tt.status)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPreregistrationStatusDefault(t *testing.T) {
	d := openTestDB(t)

	res, err := d.Exec(
		`INSERT INTO preregistrations (name, contact, purpose, visit_date, visit_time, submitted_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"Bob", "1234567890", "Interview", "2026-05-01", "10:00", time.Now(),
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	var status string
	if err := d.QueryRow(`SELECT status FROM preregistrations WHERE id = ?`, id).Scan(&status); err != nil {
		t.Fatalf("select: %v", err)
	}
	if status != "pending" {
		t.Errorf("status = %q, want pending", status)
	}
}

func TestWithTxCommits(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, d, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO feedback (type, message, timestamp) VALUES (?, ?, ?)`,
			"help", "lights are out", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	if n := countRows(t, d, "feedback"); n != 1 {
		t.Errorf("got %d rows, want 1", n)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := WithTx(ctx, d, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO feedback (type, message, timestamp) VALUES (?, ?, ?)`,
			"help", "lights are out", time.Now()); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}

	if n := countRows(t, d, "feedback"); n != 0 {
		t.Errorf("got %d rows after rollback, want 0", n)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.db")

	// Open twice, migrations should not fail on second run
	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(p) != "visitors.db" {
		t.Errorf("expected filename visitors.db, got %s", filepath.Base(p))
	}

	dir := filepath.Base(filepath.Dir(p))
	if dir != ".visitor-register" {
		t.Errorf("expected directory .visitor-register, got %s", dir)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "visitors.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

func countRows(t *testing.T, d *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := d.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}
