package visitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evcraddock/visitor-register/internal/db"
)

// ErrNotFound is returned when no visitor matches a lookup.
var ErrNotFound = errors.New("visitor not found")

const selectColumns = `SELECT id, name, contact, email, company, purpose, nda_signed, photo,
	entry_method, liveness_check, checkin_time, checkout_time, status FROM visitors`

// Repository provides data access for visitors. It works over a *sql.DB or
// a *sql.Tx.
type Repository struct {
	q db.Querier
}

// NewRepository creates a visitor repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert stores a new visitor and returns it with its assigned ID.
func (r *Repository) Insert(ctx context.Context, v *Visitor) (*Visitor, error) {
	var checkout interface{}
	if v.CheckoutTime != nil {
		checkout = *v.CheckoutTime
	}

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO visitors (name, contact, email, company, purpose, nda_signed, photo,
			entry_method, liveness_check, checkin_time, checkout_time, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Name, v.Contact, v.Email, v.Company, v.Purpose, v.NDASigned, v.Photo,
		v.EntryMethod, v.LivenessCheck, v.CheckinTime, checkout, v.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visitor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a visitor by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Visitor, error) {
	v, err := scanVisitor(r.q.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting visitor %d: %w", id, err)
	}
	return v, nil
}

// FindCheckedIn returns a checked-in visitor with the given contact.
// When several are checked in under the same contact, which one is returned
// is up to SQLite.
func (r *Repository) FindCheckedIn(ctx context.Context, contact string) (*Visitor, error) {
	v, err := scanVisitor(r.q.QueryRowContext(ctx,
		selectColumns+" WHERE contact = ? AND status = ? LIMIT 1", contact, CheckedIn))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding checked-in visitor: %w", err)
	}
	return v, nil
}

// MarkCheckedOut records a checkout for a visitor that is still checked in.
// It returns false when the visitor is missing or already checked out.
func (r *Repository) MarkCheckedOut(ctx context.Context, id int64, at time.Time) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		"UPDATE visitors SET checkout_time = ?, status = ? WHERE id = ? AND status = ?",
		at, CheckedOut, id, CheckedIn,
	)
	if err != nil {
		return false, fmt.Errorf("updating visitor %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows == 1, nil
}

// Search returns visitors whose name or contact contains query, in storage
// order. Matching is case-sensitive. An empty query returns every visitor.
func (r *Repository) Search(ctx context.Context, query string) ([]*Visitor, error) {
	if query == "" {
		return r.list(ctx, selectColumns+" ORDER BY id")
	}
	// instr is used instead of LIKE, which ignores ASCII case in SQLite.
	return r.list(ctx,
		selectColumns+" WHERE instr(name, ?) > 0 OR instr(contact, ?) > 0 ORDER BY id",
		query, query,
	)
}

// All returns every visitor in storage order.
func (r *Repository) All(ctx context.Context) ([]*Visitor, error) {
	return r.list(ctx, selectColumns+" ORDER BY id")
}

// Stats counts visitors by status.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(status = ?), 0), COALESCE(SUM(status = ?), 0), COUNT(*) FROM visitors`,
		CheckedIn, CheckedOut,
	).Scan(&s.CheckedIn, &s.CheckedOut, &s.Total)
	if err != nil {
		return Stats{}, fmt.Errorf("counting visitors: %w", err)
	}
	return s, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) (visitors []*Visitor, err error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		visitors = append(visitors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visitors: %w", err)
	}

	return visitors, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisitor(s scanner) (*Visitor, error) {
	var v Visitor
	var checkout sql.NullTime
	err := s.Scan(&v.ID, &v.Name, &v.Contact, &v.Email, &v.Company, &v.Purpose, &v.NDASigned,
		&v.Photo, &v.EntryMethod, &v.LivenessCheck, &v.CheckinTime, &checkout, &v.Status)
	if err != nil {
		return nil, err
	}
	if checkout.Valid {
		t := checkout.Time
		v.CheckoutTime = &t
	}
	return &v, nil
}
