package models

import "time"

// User is the owner of all tracked jobs, resumes, and interviews.
type User struct {
	ID         string `gorm:"primaryKey;size:32"`
	Email      string `gorm:"size:128;uniqueIndex;not null"`
	Name       string `gorm:"size:128"`
	GithubUser string `gorm:"size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Jobs    []Job    `gorm:"foreignKey:UserID"`
	Resumes []Resume `gorm:"foreignKey:UserID"`
}
