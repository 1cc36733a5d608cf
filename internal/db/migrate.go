package db

import (
	"fmt"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model for migration, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Job{},
		&models.StatusChange{},
		&models.JobAnalysis{},
		&models.Application{},
		&models.Resume{},
		&models.ResumeAnalysis{},
		&models.TailoredResume{},
		&models.Interview{},
		&models.InterviewPrep{},
		&models.MockSession{},
		&models.MockTurn{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
