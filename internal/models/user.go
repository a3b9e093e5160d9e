package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleDonor UserRole = "Donor"
	UserRoleBoth  UserRole = "Both" // donor and fundraiser
)

// User represents a registered donor or fundraiser
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Location     string     `gorm:"size:255" json:"location"`
	AboutUser    string     `gorm:"type:text" json:"about_user"`
	Role         UserRole   `gorm:"column:user_role;size:10;not null;default:Donor" json:"user_role"`
	PasswordHash string     `gorm:"column:password;size:255;not null" json:"-"`
	DOB          *time.Time `json:"dob,omitempty"`
	ImageURL     *string    `gorm:"column:user_image;size:500" json:"user_image,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// UserSummary is the public subset of a user shown beside campaigns and
// donations
type UserSummary struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	Name     string  `json:"name"`
	ImageURL *string `gorm:"column:user_image" json:"user_image,omitempty"`
}

func (UserSummary) TableName() string {
	return "users"
}

// RefreshToken is a persisted, expiring refresh-token grant
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
