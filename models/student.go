package models

import "time"

type Student struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex;size:36;not null"`
	RegNo          string    `json:"reg_no" gorm:"size:20;uniqueIndex;not null"`
	RollNo         int       `json:"roll_no" gorm:"not null"`
	Name           string    `json:"name" gorm:"size:120;not null"`
	Year           int       `json:"year" gorm:"not null"`     // 1-6
	Semester       int       `json:"semester" gorm:"not null"` // 1-8
	Section        string    `json:"section" gorm:"size:4;not null"`
	Batch          string    `json:"batch" gorm:"size:20;not null"`
	Vertical       string    `json:"vertical" gorm:"size:60"`
	Email          string    `json:"email" gorm:"size:120"`
	DepartmentID   string    `json:"department_id" gorm:"size:36;index;not null"`
	TutorID        *string   `json:"tutor_id,omitempty" gorm:"size:36;index"`
	YearInChargeID *string   `json:"year_in_charge_id,omitempty" gorm:"size:36;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
