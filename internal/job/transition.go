package job

import (
	"errors"
	"fmt"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"gorm.io/gorm"
)

// Job board statuses.
const (
	StatusWishlist     = "wishlist"
	StatusApplied      = "applied"
	StatusScreening    = "screening"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusAccepted     = "accepted"
	StatusRejected     = "rejected"
	StatusWithdrawn    = "withdrawn"
)

// AllStatuses lists every board column, in board order.
var AllStatuses = []string{
	StatusWishlist,
	StatusApplied,
	StatusScreening,
	StatusInterviewing,
	StatusOffer,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// ValidTransitions maps each status to its valid next statuses. Every status
// can reach every other: the board supports free-form drag-and-drop, so even
// accepted and withdrawn can move back (mis-drops happen, offers fall
// through). The one forbidden move is a no-op onto the same column.
var ValidTransitions = map[string][]string{
	StatusWishlist:     others(StatusWishlist),
	StatusApplied:      others(StatusApplied),
	StatusScreening:    others(StatusScreening),
	StatusInterviewing: others(StatusInterviewing),
	StatusOffer:        others(StatusOffer),
	StatusAccepted:     others(StatusAccepted),
	StatusRejected:     others(StatusRejected),
	StatusWithdrawn:    others(StatusWithdrawn),
}

func others(status string) []string {
	out := make([]string, 0, len(AllStatuses)-1)
	for _, s := range AllStatuses {
		if s != status {
			out = append(out, s)
		}
	}
	return out
}

// ErrSameStatus marks a transition onto the current column.
var ErrSameStatus = errors.New("job is already in this status")

// ErrInvalidTransition marks a move the transition table forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// IsValidTransition checks whether a status transition is allowed.
func IsValidTransition(from, to string) bool {
	if from == to {
		return false
	}
	for _, allowed := range ValidTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves a job to a new status and appends one history record,
// atomically. Moving onto the current status fails with ErrSameStatus; the
// first move to applied stamps AppliedAt.
func Transition(db *gorm.DB, id, to, note string) (*models.Job, error) {
	var j models.Job
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&j).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("job: get %s: %w", id, err)
		}

		if j.Status == to {
			return fmt.Errorf("job: %s: %w", id, ErrSameStatus)
		}
		if !IsValidTransition(j.Status, to) {
			return fmt.Errorf("job: %w from %q to %q; valid transitions: %v",
				ErrInvalidTransition, j.Status, to, ValidTransitions[j.Status])
		}

		updates := map[string]interface{}{"status": to}
		if to == StatusApplied && j.AppliedAt == nil {
			updates["applied_at"] = time.Now()
		}
		if err := tx.Model(&models.Job{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("job: update %s: %w", id, err)
		}

		change := models.StatusChange{
			JobID:      id,
			FromStatus: j.Status,
			ToStatus:   to,
			Note:       note,
		}
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("job: record transition for %s: %w", id, err)
		}

		j.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &j, nil
}
