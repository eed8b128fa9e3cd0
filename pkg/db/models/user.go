package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/artesania-app/artesania-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Email          string         `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"column:password_hash;not null" json:"-"`
	Role           enums.UserRole `gorm:"column:role;type:user_role;not null;default:'customer'" json:"role"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Addresses      []UserAddress  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	ArtisanProfile *Artisan       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"artisan_profile,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
