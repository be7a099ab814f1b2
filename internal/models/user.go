package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTeacher UserRole = "TEACHER"
	RoleAdmin   UserRole = "ADMIN"
)

type User struct {
	ID    uint     `json:"id" gorm:"primaryKey"`
	Name  string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Role  UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,oneof=STUDENT TEACHER ADMIN"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned 1:1, deleted with the user. Resolved only by the "user-profile"
	// fetch shape.
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	RelState `json:"-" gorm:"-"`
}

// HydratedProfile returns the owned profile. Panics when the profile was not
// part of the fetch shape; a user without a profile yields nil.
func (u *User) HydratedProfile() *Profile {
	u.mustResolved(RelUserProfile)
	return u.Profile
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

func (User) TableName() string {
	return "users"
}

type Profile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex"`

	Bio         *string `json:"bio" gorm:"type:text" validate:"omitempty,max=2000"`
	AvatarURL   *string `json:"avatar_url" gorm:"size:500" validate:"omitempty,url"`
	PhoneNumber *string `json:"phone_number" gorm:"size:30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
