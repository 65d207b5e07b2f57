package models

import "time"

// Subject is a taught course, keyed by its unique subject code.
type Subject struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:120;not null"`
	SubjectCode string    `json:"subject_code" gorm:"size:20;uniqueIndex;not null"`
	Semester    string    `json:"semester" gorm:"size:10;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
