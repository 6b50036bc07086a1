package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User covers both student and staff accounts. Profile fields are flattened:
// StudentNumber/Grade are set for students, Department for teachers.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	FirstName     string         `gorm:"size:100" json:"first_name"`
	LastName      string         `gorm:"size:100" json:"last_name"`
	Role          string         `gorm:"size:20;not null;default:'student'" json:"role"`
	StudentNumber string         `gorm:"size:50" json:"student_number,omitempty"`
	Grade         string         `gorm:"size:20" json:"grade,omitempty"`
	Department    string         `gorm:"size:100" json:"department,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
