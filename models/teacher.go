package models

import "time"

// Teacher links a staff user to the roster. DepartmentID is set only while
// the teacher heads that department; tutor and year-in-charge assignments
// live on the owned Student rows.
type Teacher struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;size:36;not null"`
	DepartmentID *string   `json:"department_id,omitempty" gorm:"size:36;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
