package prereg

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/evcraddock/visitor-register/internal/apperr"
	"github.com/evcraddock/visitor-register/internal/db"
	"github.com/evcraddock/visitor-register/internal/email"
	"github.com/evcraddock/visitor-register/internal/validate"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

// Notifier delivers a plain-text notification.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Approval is the result of approving a pre-registration.
type Approval struct {
	Visitor     *visitor.Visitor
	CheckinTime time.Time
}

// Service implements the pre-registration workflow.
type Service struct {
	db       *sql.DB
	repo     *Repository
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service's source of the current time. Visit
// dates are interpreted in the location of the times it returns.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a pre-registration service.
func NewService(database *sql.DB, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		db:       database,
		repo:     NewRepository(database),
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a pending pre-registration and notifies the front desk.
// When the notification fails the record stays stored and a notification
// error is returned.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Preregistration, error) {
	if err := validate.Struct(in); err != nil {
		var ve *apperr.Error
		if errors.As(err, &ve) {
			return nil, apperr.Validation(MissingFieldsMessage, ve.Fields...)
		}
		return nil, apperr.Validation(MissingFieldsMessage)
	}

	p := &Preregistration{
		Name:        in.Name,
		Contact:     in.Contact,
		Email:       in.Email,
		Company:     in.Company,
		Purpose:     in.Purpose,
		NDASigned:   in.NDASigned,
		VisitDate:   in.VisitDate,
		VisitTime:   in.VisitTime,
		Status:      Pending,
		SubmittedAt: s.now(),
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, apperr.Storage("Pre-registration failed", err)
	}
	p.ID = id

	subject, body := email.FormatPreregistration(email.Preregistration{
		Name:        p.Name,
		Contact:     p.Contact,
		Email:       p.Email,
		Company:     p.Company,
		Purpose:     p.Purpose,
		VisitDate:   p.VisitDate,
		VisitTime:   p.VisitTime,
		NDASigned:   p.NDASigned,
		SubmittedAt: p.SubmittedAt,
	})
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		slog.ErrorContext(ctx, "pre-registration notification failed", "id", p.ID, "error", err)
		return p, apperr.Notification("Pre-registration failed", true, err)
	}

	slog.InfoContext(ctx, "pre-registration submitted", "id", p.ID, "name", p.Name)
	return p, nil
}

// ListPending returns every pending pre-registration.
func (s *Service) ListPending(ctx context.Context) ([]*Preregistration, error) {
	preregs, err := s.repo.ListByStatus(ctx, Pending)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch preregistrations.", err)
	}
	return preregs, nil
}

// Approve converts a pending pre-registration into a checked-in visitor.
// The status change and the visitor insert commit together or not at all.
func (s *Service) Approve(ctx context.Context, id int64) (*Approval, error) {
	now := s.now()
	var result *Approval

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := NewRepository(tx)

		p, err := repo.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Pre-registration not found.")
		}
		if err != nil {
			return err
		}

		// The conditional update is the only status check, so a row that
		// stopped being pending after GetByID is still rejected.
		ok, err := repo.Transition(ctx, id, Approved)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Pre-registration already processed.")
		}

		// Returning an error here rolls the transition back.
		visitAt, err := p.VisitAt(now.Location())
		if err != nil {
			return apperr.Validation("Invalid visit date/time format.")
		}
		checkin := CheckinTime(visitAt, now)

		v, err := visitor.NewRepository(tx).Insert(ctx, &visitor.Visitor{
			Name:          p.Name,
			Contact:       p.Contact,
			Email:         p.Email,
			Company:       p.Company,
			Purpose:       p.Purpose,
			NDASigned:     p.NDASigned,
			Photo:         visitor.PlaceholderPhoto,
			EntryMethod:   visitor.EntryPreregistration,
			LivenessCheck: visitor.LivenessNotApplicable,
			CheckinTime:   checkin,
			Status:        visitor.CheckedIn,
		})
		if err != nil {
			return err
		}

		result = &Approval{Visitor: v, CheckinTime: checkin}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			slog.WarnContext(ctx, "pre-registration approval rejected", "id", id, "error", err)
			return nil, err
		}
		return nil, apperr.Storage("Failed to approve preregistration", err)
	}

	slog.InfoContext(ctx, "pre-registration approved",
		"id", id, "visitor_id", result.Visitor.ID, "checkin_time", result.CheckinTime)
	return result, nil
}

// Decline marks a pending pre-registration as declined. Declining an id
// that does not exist, or that is no longer pending, changes nothing and
// is not an error.
func (s *Service) Decline(ctx context.Context, id int64) error {
	ok, err := s.repo.Transition(ctx, id, Declined)
	if err != nil {
		return apperr.Storage("Failed to decline preregistration", err)
	}

	slog.InfoContext(ctx, "pre-registration declined", "id", id, "changed", ok)
	return nil
}
