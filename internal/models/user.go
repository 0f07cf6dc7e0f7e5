package models

import (
	"gorm.io/gorm"
)

// Role is the access tier of a user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// UserStatus is whether the account may act at all.
type UserStatus string

const (
	UserActive UserStatus = "ACTIVE"
	UserBanned UserStatus = "BANNED"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserBanned
}

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Username     string     `gorm:"unique;not null" json:"username"`
	Email        string     `gorm:"unique;not null" json:"email"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:varchar(16);not null;default:USER;index" json:"role"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:ACTIVE;index" json:"status"`
}
