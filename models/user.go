package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

type User struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	Username      string     `json:"username" gorm:"uniqueIndex;size:120;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Name          string     `json:"name" gorm:"size:120"`
	Role          UserRole   `json:"role" gorm:"size:20;not null"` // ADMIN | TEACHER | STUDENT
	Password      string     `json:"-" gorm:"not null"`            // bcrypt hash
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	Otp           *int       `json:"-"`
	OtpExpiresAt  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
