package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusAccepted RequestStatus = "ACCEPTED"
	StatusRejected RequestStatus = "REJECTED"
)

// Request is one approval step of a form's chain, addressed to the
// approving teacher's user id. Seq starts at 1 for the tutor step and grows
// by one each time the current tail is accepted.
type Request struct {
	ID                 string        `json:"id" gorm:"primaryKey;size:36"`
	FormID             string        `json:"form_id" gorm:"size:36;index;not null"`
	RequestedID        string        `json:"requested_id" gorm:"size:36;index;not null"`
	Seq                int           `json:"seq" gorm:"not null"`
	Status             RequestStatus `json:"status" gorm:"size:20;not null"`
	ReasonForRejection *string       `json:"reason_for_rejection,omitempty" gorm:"type:text"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
