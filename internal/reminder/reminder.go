// Package reminder scans for upcoming interviews and notifies the
// configured chat channels before they start.
package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/interview"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/notify"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Scheduler periodically scans for interviews entering the lead window
// and sends one reminder per interview.
type Scheduler struct {
	db       *gorm.DB
	notifier notify.Notifier
	schedule string
	leadTime time.Duration
	now      func() time.Time // for tests
}

// Opts holds parameters for creating a Scheduler.
type Opts struct {
	DB       *gorm.DB
	Notifier notify.Notifier
	Schedule string        // 5-field cron expression
	LeadTime time.Duration // notify this far before the interview
}

// New creates a reminder Scheduler.
func New(opts Opts) (*Scheduler, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("reminder: database is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("reminder: notifier is required")
	}
	if _, err := cronParser.Parse(opts.Schedule); err != nil {
		return nil, fmt.Errorf("reminder: invalid schedule %q: %w", opts.Schedule, err)
	}
	if opts.LeadTime <= 0 {
		return nil, fmt.Errorf("reminder: lead time must be positive")
	}
	return &Scheduler{
		db:       opts.DB,
		notifier: opts.Notifier,
		schedule: opts.Schedule,
		leadTime: opts.LeadTime,
		now:      time.Now,
	}, nil
}

// Run fires sweeps on the cron schedule until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	d := nextCronDuration(s.schedule)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("reminder: sweep: %v", err)
			}
			if d := nextCronDuration(s.schedule); d > 0 {
				timer.Reset(d)
			} else {
				return
			}
		}
	}
}

// Sweep notifies every interview inside the lead window that has not
// been reminded yet, then marks it. An interview whose notification
// fails is left unmarked so the next sweep retries it.
func (s *Scheduler) Sweep(ctx context.Context) error {
	now := s.now()
	due, err := interview.DueForReminder(s.db, now, s.leadTime)
	if err != nil {
		return fmt.Errorf("reminder: find due interviews: %w", err)
	}

	for _, ivw := range due {
		if err := s.notifier.Send(ctx, buildEvent(ivw)); err != nil {
			log.Printf("reminder: notify for %s: %v", ivw.ID, err)
			continue
		}
		if err := interview.MarkReminded(s.db, ivw.ID, now); err != nil {
			log.Printf("reminder: mark %s: %v", ivw.ID, err)
		}
	}
	return nil
}

// buildEvent formats an upcoming interview as a chat notification.
func buildEvent(ivw models.Interview) notify.Event {
	title := fmt.Sprintf("Interview coming up: %s at %s", ivw.Job.Title, ivw.Job.Company)
	fields := []notify.Field{
		{Name: "When", Value: ivw.ScheduledAt.Format("Mon Jan 2 15:04"), Short: true},
	}
	if ivw.Round != "" {
		fields = append(fields, notify.Field{Name: "Round", Value: ivw.Round, Short: true})
	}
	if ivw.Interviewer != "" {
		fields = append(fields, notify.Field{Name: "Interviewer", Value: ivw.Interviewer, Short: true})
	}
	if ivw.Location != "" {
		fields = append(fields, notify.Field{Name: "Where", Value: ivw.Location, Short: false})
	}
	return notify.Event{
		Title:    title,
		Body:     ivw.Notes,
		Severity: "warning",
		Fields:   fields,
	}
}
