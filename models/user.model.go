package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string    `json:"name" gorm:"default:''"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsActive  bool      `json:"is_active" gorm:"default:false"`
	LastLogin time.Time `json:"last_login" gorm:"default:NULL"`
	IsDeleted bool      `json:"-" gorm:"default:false"`
}

// Profile holds extended user data. Created explicitly during signup,
// never by a persistence hook.
type Profile struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	AvatarPath string     `json:"avatar_path"`
	DNI        string     `json:"dni"`
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Address    string     `json:"address"`
	PostalCode string     `json:"postal_code"`
}
