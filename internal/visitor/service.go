package visitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/evcraddock/visitor-register/internal/apperr"
	"github.com/evcraddock/visitor-register/internal/export"
	"github.com/evcraddock/visitor-register/internal/validate"
)

// Service implements the visitor lifecycle: check-in, check-out, history
// search, stats, and log export. It keeps no state between calls.
type Service struct {
	repo      *Repository
	exportDir string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a visitor service. Exports are written under exportDir.
func NewService(database *sql.DB, exportDir string, opts ...Option) *Service {
	s := &Service{
		repo:      NewRepository(database),
		exportDir: exportDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIn validates in and records a new checked-in visitor.
func (s *Service) CheckIn(ctx context.Context, in CheckInInput) (*Visitor, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in.applyDefaults()

	v, err := s.repo.Insert(ctx, &Visitor{
		Name:          in.Name,
		Contact:       in.Contact,
		Email:         in.Email,
		Company:       in.Company,
		Purpose:       in.Purpose,
		NDASigned:     in.NDASigned,
		Photo:         in.Photo,
		EntryMethod:   in.EntryMethod,
		LivenessCheck: in.LivenessCheck,
		CheckinTime:   s.now(),
		Status:        CheckedIn,
	})
	if err != nil {
		return nil, apperr.Storage("Database error", err)
	}

	slog.InfoContext(ctx, "visitor checked in", "id", v.ID, "name", v.Name)
	return v, nil
}

// CheckOut checks out a visitor currently checked in under contact.
func (s *Service) CheckOut(ctx context.Context, contact string) (*Visitor, error) {
	if strings.TrimSpace(contact) == "" {
		return nil, apperr.Validation("Contact number is required")
	}

	v, err := s.repo.FindCheckedIn(ctx, contact)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Visitor not found or already checked out")
	}
	if err != nil {
		return nil, apperr.Storage("Database error", err)
	}

	now := s.now()
	updated, err := s.repo.MarkCheckedOut(ctx, v.ID, now)
	if err != nil {
		return nil, apperr.Storage("Database error", err)
	}
	if !updated {
		// Checked out by a concurrent request between lookup and update.
		return nil, apperr.NotFound("Visitor not found or already checked out")
	}

	v.CheckoutTime = &now
	v.Status = CheckedOut

	slog.InfoContext(ctx, "visitor checked out", "id", v.ID, "name", v.Name)
	return v, nil
}

// Search returns visitors whose name or contact contains query, each with
// its overstay flag. A non-empty query that matches nothing is a not-found
// error; an empty query always succeeds.
func (s *Service) Search(ctx context.Context, query string) ([]HistoryEntry, error) {
	visitors, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperr.Storage("Database error", err)
	}

	if len(visitors) == 0 && query != "" {
		return nil, apperr.NotFound("No visitors found matching the search criteria")
	}

	now := s.now()
	entries := make([]HistoryEntry, 0, len(visitors))
	for _, v := range visitors {
		entries = append(entries, HistoryEntry{
			Visitor:  *v,
			Overstay: IsOverstay(v.CheckinTime, v.Status, now),
		})
	}
	return entries, nil
}

// Stats returns visitor counts by status.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, apperr.Storage("Database error", err)
	}
	return stats, nil
}

// Export writes every visitor to a timestamped CSV file in the export
// directory and returns its path.
func (s *Service) Export(ctx context.Context) (string, error) {
	visitors, err := s.repo.All(ctx)
	if err != nil {
		return "", apperr.Storage("Export failed", err)
	}

	rows := make([][]string, 0, len(visitors))
	for _, v := range visitors {
		rows = append(rows, v.ExportRow())
	}

	name := fmt.Sprintf("visitor_logs_%s.csv", s.now().Format("20060102_150405"))
	path := filepath.Join(s.exportDir, name)
	if err := export.WriteFile(path, ExportHeader, rows); err != nil {
		return "", apperr.Storage("Export failed", err)
	}

	slog.InfoContext(ctx, "visitor logs exported", "path", path, "rows", len(rows))
	return path, nil
}
