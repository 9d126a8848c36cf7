package prereg

import (
	"context"
	"errors"
	"fmt"

	"github.com/evcraddock/visitor-register/internal/db"
)

// ErrNotFound is returned when no pre-registration matches a lookup.
var ErrNotFound = errors.New("pre-registration not found")

const selectColumns = `SELECT id, name, contact, email, company, purpose, nda_signed,
	visit_date, visit_time, status, submitted_at FROM preregistrations`

// Repository provides data access for pre-registrations. It works over a
// *sql.DB or a *sql.Tx.
type Repository struct {
	q db.Querier
}

// NewRepository creates a pre-registration repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert stores a new pending pre-registration and returns its ID.
func (r *Repository) Insert(ctx context.Context, p *Preregistration) (int64, error) {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO preregistrations (name, contact, email, company, purpose, nda_signed,
			visit_date, visit_time, status, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Contact, p.Email, p.Company, p.Purpose, p.NDASigned,
		p.VisitDate, p.VisitTime, Pending, p.SubmittedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting pre-registration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	return id, nil
}

// GetByID returns a pre-registration by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Preregistration, error) {
	rows, err := r.list(ctx, selectColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// ListByStatus returns pre-registrations with the given status in
// submission order.
func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]*Preregistration, error) {
	return r.list(ctx, selectColumns+" WHERE status = ? ORDER BY id", status)
}

// Transition moves a pending pre-registration to status. It reports false
// when the row does not exist or is no longer pending.
func (r *Repository) Transition(ctx context.Context, id int64, status Status) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE preregistrations SET status = ? WHERE id = ? AND status = ?`,
		status, id, Pending,
	)
	if err != nil {
		return false, fmt.Errorf("updating pre-registration status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) (preregs []*Preregistration, err error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pre-registrations: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	preregs = []*Preregistration{}
	for rows.Next() {
		var p Preregistration
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Contact, &p.Email, &p.Company, &p.Purpose, &p.NDASigned,
			&p.VisitDate, &p.VisitTime, &p.Status, &p.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning pre-registration: %w", err)
		}
		preregs = append(preregs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pre-registrations: %w", err)
	}
	return preregs, nil
}
