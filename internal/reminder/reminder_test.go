package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/db"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/interview"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/job"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/notify"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Create(&models.User{ID: "usr-1", Email: "alice@example.com", Name: "Alice"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return gdb
}

// recordingNotifier captures sent events.
type recordingNotifier struct {
	events []notify.Event
	err    error
}

func (r *recordingNotifier) Send(ctx context.Context, evt notify.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, evt)
	return nil
}

func scheduleInterview(t *testing.T, gdb *gorm.DB, at time.Time) *models.Interview {
	t.Helper()
	j, err := job.Create(gdb, job.CreateOpts{UserID: "usr-1", Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	ivw, err := interview.Create(gdb, interview.CreateOpts{
		JobID:       j.ID,
		Round:       "technical",
		Interviewer: "Dana",
		ScheduledAt: at,
	})
	if err != nil {
		t.Fatalf("create interview: %v", err)
	}
	return ivw
}

func TestNewValidation(t *testing.T) {
	gdb := testDB(t)
	n := &recordingNotifier{}

	tests := []struct {
		name string
		opts Opts
	}{
		{"missing db", Opts{Notifier: n, Schedule: "*/15 * * * *", LeadTime: time.Hour}},
		{"missing notifier", Opts{DB: gdb, Schedule: "*/15 * * * *", LeadTime: time.Hour}},
		{"bad schedule", Opts{DB: gdb, Notifier: n, Schedule: "every tuesday", LeadTime: time.Hour}},
		{"zero lead time", Opts{DB: gdb, Notifier: n, Schedule: "*/15 * * * *"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSweepNotifiesAndMarks(t *testing.T) {
	gdb := testDB(t)
	now := time.Now()
	due := scheduleInterview(t, gdb, now.Add(12*time.Hour))
	scheduleInterview(t, gdb, now.Add(72*time.Hour)) // outside lead window

	n := &recordingNotifier{}
	s, err := New(Opts{DB: gdb, Notifier: n, Schedule: "*/15 * * * *", LeadTime: 24 * time.Hour})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.now = func() time.Time { return now }

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.events))
	}
	evt := n.events[0]
	if evt.Title != "Interview coming up: Backend Engineer at Acme" {
		t.Errorf("unexpected title: %s", evt.Title)
	}
	if evt.Severity != "warning" {
		t.Errorf("unexpected severity: %s", evt.Severity)
	}

	got, err := interview.Get(gdb, due.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RemindedAt == nil {
		t.Error("expected interview marked reminded")
	}

	// Second sweep is a no-op.
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("second Sweep failed: %v", err)
	}
	if len(n.events) != 1 {
		t.Errorf("expected no duplicate reminder, got %d events", len(n.events))
	}
}

func TestSweepRetriesOnNotifyFailure(t *testing.T) {
	gdb := testDB(t)
	now := time.Now()
	due := scheduleInterview(t, gdb, now.Add(time.Hour))

	n := &recordingNotifier{err: errors.New("slack down")}
	s, err := New(Opts{DB: gdb, Notifier: n, Schedule: "*/15 * * * *", LeadTime: 24 * time.Hour})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.now = func() time.Time { return now }

	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	got, err := interview.Get(gdb, due.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RemindedAt != nil {
		t.Error("failed notification should leave interview unmarked")
	}

	// Notifier recovers; the next sweep delivers.
	n.err = nil
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("recovery Sweep failed: %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("expected 1 notification after recovery, got %d", len(n.events))
	}
}

func TestNextCronDuration(t *testing.T) {
	if d := nextCronDuration("*/15 * * * *"); d <= 0 || d > 15*time.Minute {
		t.Errorf("expected duration within 15m, got %v", d)
	}
	if d := nextCronDuration("not a cron"); d != 0 {
		t.Errorf("expected 0 for invalid expression, got %v", d)
	}
}
