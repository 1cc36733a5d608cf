package models

import "time"

// Resume is a stored resume version belonging to a user.
type Resume struct {
	ID        string `gorm:"primaryKey;size:32"`
	UserID    string `gorm:"size:32;index;not null"`
	Title     string `gorm:"size:128;not null"`
	Content   string `gorm:"type:mediumtext;not null"`
	IsPrimary bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Analyses []ResumeAnalysis `gorm:"foreignKey:ResumeID"`
	Tailored []TailoredResume `gorm:"foreignKey:ResumeID"`
}

// ResumeAnalysis stores a validated AI review of a resume.
type ResumeAnalysis struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	ResumeID       string `gorm:"size:32;index;not null"`
	OverallScore   int
	Strengths      string `gorm:"type:json"`
	Weaknesses     string `gorm:"type:json"`
	Suggestions    string `gorm:"type:json"`
	KeywordDensity string `gorm:"type:json"`
	Summary        string `gorm:"type:text"`
	Model          string `gorm:"size:64"`
	InputTokens    int
	OutputTokens   int
	CreatedAt      time.Time

	Resume Resume `gorm:"foreignKey:ResumeID"`
}

// TailoredResume stores the result of tailoring a resume toward one job.
type TailoredResume struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	ResumeID          string `gorm:"size:32;index;not null"`
	JobID             string `gorm:"size:32;index;not null"`
	TailoredSummary   string `gorm:"type:text"`
	Highlights        string `gorm:"type:json"`
	KeywordsAdded     string `gorm:"type:json"`
	SectionsRewritten string `gorm:"type:json"`
	FitScore          int
	Model             string `gorm:"size:64"`
	CreatedAt         time.Time

	Resume Resume `gorm:"foreignKey:ResumeID"`
	Job    Job    `gorm:"foreignKey:JobID"`
}
