package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	UserActive    = "ACTIVE"
	UserSuspended = "SUSPENDED"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID         uint64 `gorm:"primaryKey"`
	Name       string `gorm:"size:64;not null"`
	Email      string `gorm:"uniqueIndex;size:128;not null"`
	Password   string `gorm:"size:255" json:"-"` // empty for OAuth-only accounts
	Provider   string `gorm:"size:16;not null;default:'local'"`
	GoogleID   string `gorm:"size:64;index"`
	Role       string `gorm:"size:16;not null;default:'USER'"`
	Status     string `gorm:"size:16;not null;default:'ACTIVE'"`
	Reputation int64  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u *User) IsSuspended() bool { return u.Status == UserSuspended }
