package models

import (
	"time"
)

// Admin reviews campaigns assigned to them by round-robin
type Admin struct {
	AdminID      string    `gorm:"primaryKey;size:20" json:"admin_id"`
	Name         string    `gorm:"column:admin_name;size:255;not null" json:"admin_name"`
	Email        string    `gorm:"column:admin_email;size:255;uniqueIndex;not null" json:"admin_email"`
	PasswordHash string    `gorm:"column:admin_pass;size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// IDCounter holds the last allocated sequence number for an ID prefix
type IDCounter struct {
	Kind      string    `gorm:"primaryKey;size:10" json:"kind"`
	LastValue int64     `gorm:"not null" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IDCounter) TableName() string {
	return "id_counters"
}
