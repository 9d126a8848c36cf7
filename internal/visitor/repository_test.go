package visitor

import (
	"context"
	"testing"
	"time"
)

func TestInsertAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	checkin := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	v, err := repo.Insert(ctx, &Visitor{
		Name:          "Alice",
		Contact:       "9876543210",
		Purpose:       "Meeting",
		Photo:         PlaceholderPhoto,
		EntryMethod:   EntryManual,
		LivenessCheck: LivenessNotApplicable,
		CheckinTime:   checkin,
		Status:        CheckedIn,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if v.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if !v.CheckinTime.Equal(checkin) {
		t.Errorf("checkin_time = %v, want %v", v.CheckinTime, checkin)
	}
	if v.CheckoutTime != nil {
		t.Errorf("checkout_time = %v, want nil", v.CheckoutTime)
	}

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Alice" || got.Status != CheckedIn {
		t.Errorf("got %+v", got)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testRepo(t)

	if _, err := repo.GetByID(context.Background(), 9999); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindCheckedInAndMarkCheckedOut(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	v := insertVisitor(t, repo, "Alice", "9876543210", time.Now())

	found, err := repo.FindCheckedIn(ctx, "9876543210")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != v.ID {
		t.Errorf("found id = %d, want %d", found.ID, v.ID)
	}

	at := time.Now()
	ok, err := repo.MarkCheckedOut(ctx, v.ID, at)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !ok {
		t.Fatal("expected update")
	}

	// A second checkout of the same row is refused.
	ok, err = repo.MarkCheckedOut(ctx, v.ID, at)
	if err != nil {
		t.Fatalf("mark again: %v", err)
	}
	if ok {
		t.Error("expected no update for already checked-out visitor")
	}

	if _, err := repo.FindCheckedIn(ctx, "9876543210"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != CheckedOut {
		t.Errorf("status = %q, want %q", got.Status, CheckedOut)
	}
	if got.CheckoutTime == nil || !got.CheckoutTime.Equal(at) {
		t.Errorf("checkout_time = %v, want %v", got.CheckoutTime, at)
	}
}

func TestSearch(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	insertVisitor(t, repo, "Alice", "9876543210", time.Now())
	insertVisitor(t, repo, "Bob", "1234567890", time.Now())
	insertVisitor(t, repo, "alicia", "5550001111", time.Now())

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Alice", "Bob", "alicia"}},
		{"Ali", []string{"Alice"}},
		{"ali", []string{"alicia"}},
		{"4567", []string{"Bob"}},
		{"0", []string{"Alice", "Bob", "alicia"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			visitors, err := repo.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(visitors) != len(tt.want) {
				t.Fatalf("got %d visitors, want %d", len(visitors), len(tt.want))
			}
			for i, name := range tt.want {
				if visitors[i].Name != name {
					t.Errorf("visitor %d = %q, want %q", i, visitors[i].Name, name)
				}
			}
		})
	}
}

func TestStatsEmpty(t *testing.T) {
	repo := testRepo(t)

	s, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s != (Stats{}) {
		t.Errorf("stats = %+v, want zero", s)
	}
}

func TestAllStorageOrder(t *testing.T) {
	repo := testRepo(t)
	base := time.Now()
	// Later check-in inserted first, order still follows insertion.
	insertVisitor(t, repo, "First", "1111111111", base.Add(time.Hour))
	insertVisitor(t, repo, "Second", "2222222222", base)

	visitors, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(visitors) != 2 || visitors[0].Name != "First" || visitors[1].Name != "Second" {
		t.Errorf("unexpected order: %+v", visitors)
	}
}

func TestIsOverstay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		checkin time.Time
		status  Status
		want    bool
	}{
		{"just over two hours", now.Add(-(2*time.Hour + time.Second)), CheckedIn, true},
		{"just under two hours", now.Add(-(2*time.Hour - time.Second)), CheckedIn, false},
		{"exactly two hours", now.Add(-2 * time.Hour), CheckedIn, false},
		{"checked out long ago", now.Add(-10 * time.Hour), CheckedOut, false},
		{"future check-in", now.Add(time.Hour), CheckedIn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverstay(tt.checkin, tt.status, now); got != tt.want {
				t.Errorf("IsOverstay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportRow(t *testing.T) {
	checkin := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	checkout := checkin.Add(90 * time.Minute)
	v := &Visitor{
		ID: 3, Name: "Alice", Contact: "9876543210", Purpose: "Meeting", NDASigned: true,
		Photo: PlaceholderPhoto, EntryMethod: EntryManual, LivenessCheck: LivenessNotApplicable,
		CheckinTime: checkin, CheckoutTime: &checkout, Status: CheckedOut,
	}

	row := v.ExportRow()
	if len(row) != len(ExportHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(ExportHeader))
	}
	if row[6] != "1" {
		t.Errorf("nda = %q, want 1", row[6])
	}
	if row[10] != "2026-03-01 09:30:00" {
		t.Errorf("check-in = %q", row[10])
	}
	if row[11] != "2026-03-01 11:00:00" {
		t.Errorf("check-out = %q", row[11])
	}
}

func insertVisitor(t *testing.T, repo *Repository, name, contact string, checkin time.Time) *Visitor {
	t.Helper()
	v, err := repo.Insert(context.Background(), &Visitor{
		Name:          name,
		Contact:       contact,
		Purpose:       "Meeting",
		Photo:         PlaceholderPhoto,
		EntryMethod:   EntryManual,
		LivenessCheck: LivenessNotApplicable,
		CheckinTime:   checkin,
		Status:        CheckedIn,
	})
	if err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
	return v
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(testDB(t))
}
