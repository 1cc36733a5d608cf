// Package interview provides interview scheduling, prep storage, and
// mock-interview sessions.
package interview

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an interview, session, or turn does not exist.
var ErrNotFound = errors.New("interview: not found")

// Interview rounds.
var ValidRounds = []string{"screen", "technical", "onsite", "final"}

// CreateOpts holds parameters for scheduling an interview.
type CreateOpts struct {
	JobID       string
	Round       string
	Interviewer string
	Location    string
	Notes       string
	ScheduledAt time.Time
}

// GenerateID creates a unique interview ID in ivw-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("interview: generate ID: %w", err)
	}
	return "ivw-" + hex.EncodeToString(b)[:5], nil
}

// Create schedules an interview for a job.
func Create(db *gorm.DB, opts CreateOpts) (*models.Interview, error) {
	if opts.JobID == "" {
		return nil, fmt.Errorf("interview: job ID is required")
	}
	if opts.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("interview: scheduled time is required")
	}
	if opts.Round != "" && !validRound(opts.Round) {
		return nil, fmt.Errorf("interview: invalid round %q; valid rounds: %v", opts.Round, ValidRounds)
	}

	var j models.Job
	if err := db.Where("id = ?", opts.JobID).First(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, opts.JobID)
		}
		return nil, fmt.Errorf("interview: check job %s: %w", opts.JobID, err)
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	ivw := models.Interview{
		ID:          id,
		JobID:       opts.JobID,
		Round:       opts.Round,
		Interviewer: opts.Interviewer,
		Location:    opts.Location,
		Notes:       opts.Notes,
		ScheduledAt: opts.ScheduledAt,
	}
	if err := db.Create(&ivw).Error; err != nil {
		return nil, fmt.Errorf("interview: create: %w", err)
	}
	return &ivw, nil
}

func validRound(round string) bool {
	for _, r := range ValidRounds {
		if r == round {
			return true
		}
	}
	return false
}

// Get retrieves an interview by ID, preloading the job.
func Get(db *gorm.DB, id string) (*models.Interview, error) {
	var ivw models.Interview
	if err := db.Preload("Job").Where("id = ?", id).First(&ivw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("interview: get %s: %w", id, err)
	}
	return &ivw, nil
}

// ListForJob returns a job's interviews ordered by schedule.
func ListForJob(db *gorm.DB, jobID string) ([]models.Interview, error) {
	var interviews []models.Interview
	if err := db.Where("job_id = ?", jobID).Order("scheduled_at ASC").Find(&interviews).Error; err != nil {
		return nil, fmt.Errorf("interview: list for %s: %w", jobID, err)
	}
	return interviews, nil
}

// Upcoming returns interviews scheduled between now and now+window,
// soonest first.
func Upcoming(db *gorm.DB, now time.Time, window time.Duration) ([]models.Interview, error) {
	var interviews []models.Interview
	err := db.Preload("Job").
		Where("scheduled_at > ? AND scheduled_at <= ?", now, now.Add(window)).
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("interview: upcoming: %w", err)
	}
	return interviews, nil
}

// DueForReminder returns interviews inside the lead window that have not
// been reminded yet.
func DueForReminder(db *gorm.DB, now time.Time, lead time.Duration) ([]models.Interview, error) {
	var interviews []models.Interview
	err := db.Preload("Job").
		Where("scheduled_at > ? AND scheduled_at <= ? AND reminded_at IS NULL", now, now.Add(lead)).
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("interview: due for reminder: %w", err)
	}
	return interviews, nil
}

// MarkReminded stamps an interview so it is not reminded twice.
func MarkReminded(db *gorm.DB, id string, at time.Time) error {
	res := db.Model(&models.Interview{}).Where("id = ?", id).Update("reminded_at", at)
	if res.Error != nil {
		return fmt.Errorf("interview: mark reminded %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Update modifies interview fields.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	res := db.Model(&models.Interview{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("interview: update %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes an interview and its dependents.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interview_id = ?", id).Delete(&models.InterviewPrep{}).Error; err != nil {
			return fmt.Errorf("interview: delete preps for %s: %w", id, err)
		}
		var sessions []models.MockSession
		if err := tx.Where("interview_id = ?", id).Find(&sessions).Error; err != nil {
			return fmt.Errorf("interview: find sessions for %s: %w", id, err)
		}
		for _, s := range sessions {
			if err := tx.Where("session_id = ?", s.ID).Delete(&models.MockTurn{}).Error; err != nil {
				return fmt.Errorf("interview: delete turns for session %s: %w", s.ID, err)
			}
		}
		if err := tx.Where("interview_id = ?", id).Delete(&models.MockSession{}).Error; err != nil {
			return fmt.Errorf("interview: delete sessions for %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Interview{})
		if res.Error != nil {
			return fmt.Errorf("interview: delete %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// SavePrep persists a validated question set for an interview.
func SavePrep(db *gorm.DB, interviewID string, result agents.PrepResult, model string) (*models.InterviewPrep, error) {
	questions, err := json.Marshal(result.Questions)
	if err != nil {
		return nil, fmt.Errorf("interview: marshal questions: %w", err)
	}
	row := models.InterviewPrep{
		InterviewID: interviewID,
		Questions:   string(questions),
		Model:       model,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("interview: save prep for %s: %w", interviewID, err)
	}
	return &row, nil
}

// StartMock opens a new mock-interview session.
func StartMock(db *gorm.DB, interviewID string) (*models.MockSession, error) {
	if _, err := Get(db, interviewID); err != nil {
		return nil, err
	}
	session := models.MockSession{
		ID:          uuid.NewString(),
		InterviewID: interviewID,
		Status:      "active",
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("interview: start mock session: %w", err)
	}
	return &session, nil
}

// GetMock retrieves a mock session with its turns in order.
func GetMock(db *gorm.DB, sessionID string) (*models.MockSession, error) {
	var session models.MockSession
	err := db.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: mock session %s", ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("interview: get mock session %s: %w", sessionID, err)
	}
	return &session, nil
}

// AppendQuestion adds the next question to a session as an unanswered turn.
func AppendQuestion(db *gorm.DB, sessionID string, q agents.MockQuestion) (*models.MockTurn, error) {
	var turn models.MockTurn
	err := db.Transaction(func(tx *gorm.DB) error {
		var last models.MockTurn
		seq := 1
		err := tx.Where("session_id = ?", sessionID).Order("sequence DESC").First(&last).Error
		if err == nil {
			seq = last.Sequence + 1
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("interview: last turn for %s: %w", sessionID, err)
		}

		turn = models.MockTurn{
			SessionID: sessionID,
			Sequence:  seq,
			Question:  q.Question,
			Category:  q.Category,
		}
		if err := tx.Create(&turn).Error; err != nil {
			return fmt.Errorf("interview: append question to %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// RecordAnswer stores the candidate's answer and its evaluation on a turn.
func RecordAnswer(db *gorm.DB, turnID uint, answer string, eval agents.Evaluation) error {
	strongPoints, err := json.Marshal(eval.StrongPoints)
	if err != nil {
		return fmt.Errorf("interview: marshal strong points: %w", err)
	}
	areas, err := json.Marshal(eval.AreasToImprove)
	if err != nil {
		return fmt.Errorf("interview: marshal areas: %w", err)
	}

	res := db.Model(&models.MockTurn{}).Where("id = ?", turnID).Updates(map[string]interface{}{
		"answer":           answer,
		"score":            eval.Score,
		"feedback":         eval.Feedback,
		"strong_points":    string(strongPoints),
		"areas_to_improve": string(areas),
	})
	if res.Error != nil {
		return fmt.Errorf("interview: record answer on turn %d: %w", turnID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: turn %d", ErrNotFound, turnID)
	}
	return nil
}

// CompleteMock closes a session.
func CompleteMock(db *gorm.DB, sessionID string) error {
	now := time.Now()
	res := db.Model(&models.MockSession{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"status":       "completed",
		"completed_at": now,
	})
	if res.Error != nil {
		return fmt.Errorf("interview: complete mock session %s: %w", sessionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: mock session %s", ErrNotFound, sessionID)
	}
	return nil
}
