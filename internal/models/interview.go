package models

import "time"

// Interview is a scheduled interview round for a job.
type Interview struct {
	ID          string     `gorm:"primaryKey;size:32"`
	JobID       string     `gorm:"size:32;index;not null"`
	Round       string     `gorm:"size:32"` // "screen", "technical", "onsite", "final"
	Interviewer string     `gorm:"size:128"`
	Location    string     `gorm:"size:256"` // address or meeting link
	Notes       string     `gorm:"type:text"`
	ScheduledAt time.Time  `gorm:"index"`
	RemindedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Job   Job             `gorm:"foreignKey:JobID"`
	Preps []InterviewPrep `gorm:"foreignKey:InterviewID"`
}

// InterviewPrep stores an AI-generated question set for an interview.
type InterviewPrep struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	InterviewID string `gorm:"size:32;index;not null"`
	Questions   string `gorm:"type:json;not null"`
	Model       string `gorm:"size:64"`
	CreatedAt   time.Time

	Interview Interview `gorm:"foreignKey:InterviewID"`
}

// MockSession is one mock-interview conversation tied to an interview.
type MockSession struct {
	ID          string `gorm:"primaryKey;size:36"` // UUID
	InterviewID string `gorm:"size:32;index;not null"`
	Status      string `gorm:"size:16;default:active"` // active, completed
	CreatedAt   time.Time
	CompletedAt *time.Time

	Interview Interview  `gorm:"foreignKey:InterviewID"`
	Turns     []MockTurn `gorm:"foreignKey:SessionID"`
}

// MockTurn is a single question/answer/evaluation exchange in a mock session.
type MockTurn struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	SessionID      string `gorm:"size:36;index;not null"`
	Sequence       int    `gorm:"not null"`
	Question       string `gorm:"type:text;not null"`
	Category       string `gorm:"size:16"`
	Answer         string `gorm:"type:text"`
	Score          *int
	Feedback       string `gorm:"type:text"`
	StrongPoints   string `gorm:"type:json"`
	AreasToImprove string `gorm:"type:json"`
	CreatedAt      time.Time

	Session MockSession `gorm:"foreignKey:SessionID"`
}
