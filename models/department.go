package models

import "time"

type Department struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Code      string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	CollegeID string    `json:"college_id,omitempty" gorm:"size:36;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
