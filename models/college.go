package models

import "time"

// College is the single institution profile record.
type College struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:160;not null"`
	Code        string    `json:"code" gorm:"size:20;not null"`
	Aishe       string    `json:"aishe" gorm:"size:20"`
	District    string    `json:"district" gorm:"size:60"`
	State       string    `json:"state" gorm:"size:60"`
	Pincode     string    `json:"pincode" gorm:"size:10"`
	Address     string    `json:"address" gorm:"type:text"`
	Phone       string    `json:"phone" gorm:"size:15"`
	Email       string    `json:"email" gorm:"size:120"`
	Description string    `json:"description" gorm:"type:text"`
	Logo        string    `json:"logo" gorm:"size:255"`
	CoverImage  string    `json:"cover_image" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
