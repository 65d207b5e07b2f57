package models

import "time"

type FormType string

const (
	FormOnDuty FormType = "ON_DUTY"
	FormLeave  FormType = "LEAVE"
)

// Form is a single leave/on-duty submission. It is immutable after
// creation; its progress lives in the owned Request chain.
type Form struct {
	ID          string      `json:"id" gorm:"primaryKey;size:36"`
	RequesterID string      `json:"requester_id" gorm:"size:36;index;not null"` // student's user id
	Category    string      `json:"category" gorm:"size:60;not null"`
	Reason      string      `json:"reason" gorm:"type:text"`
	FormType    FormType    `json:"form_type" gorm:"size:20;not null"` // ON_DUTY | LEAVE
	Dates       []time.Time `json:"dates" gorm:"serializer:json"`
	CreatedAt   time.Time   `json:"created_at"`

	// Derived, never persisted.
	Status   RequestStatus `json:"status" gorm:"-"`
	Requests []Request     `json:"requests" gorm:"-"` // ordered by Seq
}
