// Package job provides job lifecycle operations over the board.
package job

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a job ID does not exist.
var ErrNotFound = errors.New("job: not found")

// CreateOpts holds parameters for tracking a new job.
type CreateOpts struct {
	UserID      string
	Title       string
	Company     string
	Description string
	URL         string
	Location    string
	Salary      string
	Notes       string
}

// ListFilters holds optional filters for listing jobs.
type ListFilters struct {
	UserID  string
	Status  string
	Company string
}

// GenerateID creates a unique job ID in job-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("job: generate ID: %w", err)
	}
	return "job-" + hex.EncodeToString(b)[:5], nil
}

// Create tracks a new job, starting in the wishlist column.
func Create(db *gorm.DB, opts CreateOpts) (*models.Job, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("job: user ID is required")
	}
	if opts.Title == "" {
		return nil, fmt.Errorf("job: title is required")
	}
	if opts.Company == "" {
		return nil, fmt.Errorf("job: company is required")
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	j := models.Job{
		ID:          id,
		UserID:      opts.UserID,
		Title:       opts.Title,
		Company:     opts.Company,
		Description: opts.Description,
		URL:         opts.URL,
		Location:    opts.Location,
		Salary:      opts.Salary,
		Status:      StatusWishlist,
		Notes:       opts.Notes,
	}

	if err := db.Create(&j).Error; err != nil {
		return nil, fmt.Errorf("job: create: %w", err)
	}
	return &j, nil
}

// generateUniqueID retries ID generation on the rare collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for range 5 {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("job: check ID: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("job: could not generate a unique ID")
}

// Get retrieves a job by ID, preloading its status history.
func Get(db *gorm.DB, id string) (*models.Job, error) {
	var j models.Job
	if err := db.Preload("StatusChanges").Where("id = ?", id).First(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("job: get %s: %w", id, err)
	}
	return &j, nil
}

// List returns jobs matching the given filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.Job, error) {
	q := db.Model(&models.Job{})

	if filters.UserID != "" {
		q = q.Where("user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Company != "" {
		q = q.Where("company = ?", filters.Company)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job: list: %w", err)
	}
	return jobs, nil
}

// Update modifies non-status job fields. Status moves go through Transition.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if _, ok := updates["status"]; ok {
		return fmt.Errorf("job: status changes must use Transition")
	}

	res := db.Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("job: update %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a job and its dependents.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.StatusChange{}).Error; err != nil {
			return fmt.Errorf("job: delete history for %s: %w", id, err)
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.JobAnalysis{}).Error; err != nil {
			return fmt.Errorf("job: delete analyses for %s: %w", id, err)
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return fmt.Errorf("job: delete applications for %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return fmt.Errorf("job: delete %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// History returns a job's status changes, oldest first.
func History(db *gorm.DB, id string) ([]models.StatusChange, error) {
	var changes []models.StatusChange
	if err := db.Where("job_id = ?", id).Order("created_at ASC, id ASC").Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("job: history for %s: %w", id, err)
	}
	return changes, nil
}

// SaveAnalysis persists a validated job analysis.
func SaveAnalysis(db *gorm.DB, jobID string, a agents.JobAnalysis, model string, inputTokens, outputTokens int) (*models.JobAnalysis, error) {
	required, err := marshalJSON(a.RequiredSkills)
	if err != nil {
		return nil, err
	}
	nice, err := marshalJSON(a.NiceToHaveSkills)
	if err != nil {
		return nil, err
	}
	resp, err := marshalJSON(a.Responsibilities)
	if err != nil {
		return nil, err
	}
	flags, err := marshalJSON(a.RedFlags)
	if err != nil {
		return nil, err
	}

	row := models.JobAnalysis{
		JobID:            jobID,
		MatchScore:       a.MatchScore,
		Seniority:        a.Seniority,
		RequiredSkills:   required,
		NiceToHaveSkills: nice,
		Responsibilities: resp,
		RedFlags:         flags,
		Summary:          a.Summary,
		Model:            model,
		InputTokens:      inputTokens,
		OutputTokens:     outputTokens,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("job: save analysis for %s: %w", jobID, err)
	}
	return &row, nil
}

// ApplicationOpts holds parameters for recording a submitted application.
type ApplicationOpts struct {
	JobID       string
	ResumeID    string
	Method      string
	CoverLetter string
	SubmittedAt time.Time
}

var applicationMethods = []string{"portal", "email", "referral", "recruiter"}

// RecordApplication stores which resume was sent for a job, how, and when.
func RecordApplication(db *gorm.DB, opts ApplicationOpts) (*models.Application, error) {
	if opts.Method != "" && !slices.Contains(applicationMethods, opts.Method) {
		return nil, fmt.Errorf("job: invalid application method %q; valid methods: %v", opts.Method, applicationMethods)
	}
	if opts.SubmittedAt.IsZero() {
		opts.SubmittedAt = time.Now()
	}

	if _, err := Get(db, opts.JobID); err != nil {
		return nil, err
	}

	app := models.Application{
		JobID:       opts.JobID,
		ResumeID:    opts.ResumeID,
		Method:      opts.Method,
		CoverLetter: opts.CoverLetter,
		SubmittedAt: opts.SubmittedAt,
	}
	if err := db.Create(&app).Error; err != nil {
		return nil, fmt.Errorf("job: record application for %s: %w", opts.JobID, err)
	}
	return &app, nil
}

// ListApplications returns a job's recorded applications, newest first.
func ListApplications(db *gorm.DB, jobID string) ([]models.Application, error) {
	var apps []models.Application
	if err := db.Where("job_id = ?", jobID).Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("job: list applications for %s: %w", jobID, err)
	}
	return apps, nil
}

func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("job: marshal analysis field: %w", err)
	}
	return string(b), nil
}
