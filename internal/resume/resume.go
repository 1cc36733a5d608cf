// Package resume provides resume storage and lifecycle operations.
package resume

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a resume ID does not exist.
var ErrNotFound = errors.New("resume: not found")

// CreateOpts holds parameters for storing a new resume version.
type CreateOpts struct {
	UserID    string
	Title     string
	Content   string
	IsPrimary bool
}

// GenerateID creates a unique resume ID in res-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("resume: generate ID: %w", err)
	}
	return "res-" + hex.EncodeToString(b)[:5], nil
}

// Create stores a resume. Marking it primary demotes the user's previous
// primary in the same transaction.
func Create(db *gorm.DB, opts CreateOpts) (*models.Resume, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("resume: user ID is required")
	}
	if opts.Title == "" {
		return nil, fmt.Errorf("resume: title is required")
	}
	if opts.Content == "" {
		return nil, fmt.Errorf("resume: content is required")
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	r := models.Resume{
		ID:        id,
		UserID:    opts.UserID,
		Title:     opts.Title,
		Content:   opts.Content,
		IsPrimary: opts.IsPrimary,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if opts.IsPrimary {
			if err := demoteOthers(tx, opts.UserID, ""); err != nil {
				return err
			}
		}
		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("resume: create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get retrieves a resume by ID.
func Get(db *gorm.DB, id string) (*models.Resume, error) {
	var r models.Resume
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("resume: get %s: %w", id, err)
	}
	return &r, nil
}

// List returns a user's resumes, primary first, then newest.
func List(db *gorm.DB, userID string) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := db.Where("user_id = ?", userID).Order("is_primary DESC, created_at DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("resume: list: %w", err)
	}
	return resumes, nil
}

// Update modifies resume fields.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	res := db.Model(&models.Resume{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("resume: update %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SetPrimary marks one resume as the user's primary, demoting the rest.
func SetPrimary(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		r, err := Get(tx, id)
		if err != nil {
			return err
		}
		if err := demoteOthers(tx, r.UserID, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Resume{}).Where("id = ?", id).Update("is_primary", true).Error; err != nil {
			return fmt.Errorf("resume: promote %s: %w", id, err)
		}
		return nil
	})
}

func demoteOthers(tx *gorm.DB, userID, keepID string) error {
	q := tx.Model(&models.Resume{}).Where("user_id = ? AND is_primary = ?", userID, true)
	if keepID != "" {
		q = q.Where("id <> ?", keepID)
	}
	if err := q.Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("resume: demote primary for user %s: %w", userID, err)
	}
	return nil
}

// Primary returns the user's primary resume, or nil when none is marked.
func Primary(db *gorm.DB, userID string) (*models.Resume, error) {
	var r models.Resume
	err := db.Where("user_id = ? AND is_primary = ?", userID, true).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resume: primary for user %s: %w", userID, err)
	}
	return &r, nil
}

// Delete removes a resume and its analyses.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resume_id = ?", id).Delete(&models.ResumeAnalysis{}).Error; err != nil {
			return fmt.Errorf("resume: delete analyses for %s: %w", id, err)
		}
		if err := tx.Where("resume_id = ?", id).Delete(&models.TailoredResume{}).Error; err != nil {
			return fmt.Errorf("resume: delete tailored versions for %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Resume{})
		if res.Error != nil {
			return fmt.Errorf("resume: delete %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// SaveAnalysis persists a validated resume analysis.
func SaveAnalysis(db *gorm.DB, resumeID string, a agents.ResumeAnalysis, model string, inputTokens, outputTokens int) (*models.ResumeAnalysis, error) {
	row := models.ResumeAnalysis{
		ResumeID:     resumeID,
		OverallScore: a.OverallScore,
		Summary:      a.Summary,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	var err error
	if row.Strengths, err = marshalJSON(a.Strengths); err != nil {
		return nil, err
	}
	if row.Weaknesses, err = marshalJSON(a.Weaknesses); err != nil {
		return nil, err
	}
	if row.Suggestions, err = marshalJSON(a.Suggestions); err != nil {
		return nil, err
	}
	if row.KeywordDensity, err = marshalJSON(a.KeywordDensity); err != nil {
		return nil, err
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("resume: save analysis for %s: %w", resumeID, err)
	}
	return &row, nil
}

// SaveTailored persists a validated tailoring result.
func SaveTailored(db *gorm.DB, resumeID, jobID string, tr agents.TailoredResume, model string) (*models.TailoredResume, error) {
	row := models.TailoredResume{
		ResumeID:        resumeID,
		JobID:           jobID,
		TailoredSummary: tr.TailoredSummary,
		FitScore:        tr.FitScore,
		Model:           model,
	}
	var err error
	if row.Highlights, err = marshalJSON(tr.Highlights); err != nil {
		return nil, err
	}
	if row.KeywordsAdded, err = marshalJSON(tr.KeywordsAdded); err != nil {
		return nil, err
	}
	if row.SectionsRewritten, err = marshalJSON(tr.SectionsRewritten); err != nil {
		return nil, err
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("resume: save tailored version for %s: %w", resumeID, err)
	}
	return &row, nil
}

func marshalJSON(v interface{}) (string, error) {
	if v == nil {
		return "[]", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("resume: marshal: %w", err)
	}
	return string(data), nil
}
