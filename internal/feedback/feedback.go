// Package feedback stores visitor feedback and notifies the front desk.
package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/evcraddock/visitor-register/internal/apperr"
	"github.com/evcraddock/visitor-register/internal/db"
	"github.com/evcraddock/visitor-register/internal/email"
	"github.com/evcraddock/visitor-register/internal/validate"
)

// Feedback is one stored feedback message.
type Feedback struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Input is the feedback request schema.
type Input struct {
	Type    string `json:"type" validate:"required,oneof=help report suggest"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required"`
}

// Notifier delivers a plain-text notification.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Repository provides data access for feedback.
type Repository struct {
	q db.Querier
}

// NewRepository creates a feedback repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert stores f and sets its ID.
func (r *Repository) Insert(ctx context.Context, f *Feedback) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO feedback (type, name, email, message, timestamp) VALUES (?, ?, ?, ?, ?)`,
		f.Type, f.Name, f.Email, f.Message, f.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting insert id: %w", err)
	}
	f.ID = id
	return nil
}

// Count returns the number of stored feedback messages.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting feedback: %w", err)
	}
	return n, nil
}

// Service accepts feedback submissions.
type Service struct {
	repo     *Repository
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a feedback service.
func NewService(database *sql.DB, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		repo:     NewRepository(database),
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores feedback, then notifies. A notification
// failure is returned as an error with Saved set, since the feedback is
// already stored.
func (s *Service) Submit(ctx context.Context, in Input) (*Feedback, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	f := &Feedback{
		Type:      in.Type,
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		Timestamp: s.now(),
	}
	if err := s.repo.Insert(ctx, f); err != nil {
		slog.ErrorContext(ctx, "saving feedback failed", "error", err)
		return nil, apperr.Storage("Database error", err)
	}

	subject, body := email.FormatFeedback(email.Feedback{
		Type:      f.Type,
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		Timestamp: f.Timestamp,
	})
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		slog.ErrorContext(ctx, "feedback email failed", "id", f.ID, "error", err)
		return f, apperr.Notification("Feedback saved, but email failed", true, err)
	}

	slog.InfoContext(ctx, "feedback submitted", "id", f.ID, "type", f.Type)
	return f, nil
}
