package models

import "time"

// Job is a tracked job posting moving across the Kanban board.
type Job struct {
	ID          string `gorm:"primaryKey;size:32"`
	UserID      string `gorm:"size:32;index;not null"`
	Title       string `gorm:"not null"`
	Company     string `gorm:"size:128;index;not null"`
	Description string `gorm:"type:text"`
	URL         string `gorm:"size:512"`
	Location    string `gorm:"size:128"`
	Salary      string `gorm:"size:64"`
	Status      string `gorm:"size:16;default:wishlist;index"`
	Notes       string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AppliedAt   *time.Time

	StatusChanges []StatusChange `gorm:"foreignKey:JobID"`
	Analyses      []JobAnalysis  `gorm:"foreignKey:JobID"`
}

// StatusChange records one move of a job between board columns.
type StatusChange struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	JobID      string `gorm:"size:32;index;not null"`
	FromStatus string `gorm:"size:16;not null"`
	ToStatus   string `gorm:"size:16;not null"`
	Note       string `gorm:"type:text"`
	CreatedAt  time.Time

	Job Job `gorm:"foreignKey:JobID"`
}

// JobAnalysis stores a validated AI analysis of a job posting.
type JobAnalysis struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	JobID            string `gorm:"size:32;index;not null"`
	MatchScore       int
	Seniority        string `gorm:"size:16"`
	RequiredSkills   string `gorm:"type:json"`
	NiceToHaveSkills string `gorm:"type:json"`
	Responsibilities string `gorm:"type:json"`
	RedFlags         string `gorm:"type:json"`
	Summary          string `gorm:"type:text"`
	Model            string `gorm:"size:64"`
	InputTokens      int
	OutputTokens     int
	CreatedAt        time.Time

	Job Job `gorm:"foreignKey:JobID"`
}

// Application records a submitted application for a job (which resume was
// sent, how, and when).
type Application struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	JobID       string `gorm:"size:32;index;not null"`
	ResumeID    string `gorm:"size:32"`
	Method      string `gorm:"size:32"` // "portal", "email", "referral", "recruiter"
	CoverLetter string `gorm:"type:text"`
	SubmittedAt time.Time
	CreatedAt   time.Time

	Job Job `gorm:"foreignKey:JobID"`
}
