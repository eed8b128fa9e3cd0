package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAddress is a postal address owned by exactly one user.
type UserAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Street     string    `gorm:"column:street;not null" json:"street"`
	Number     string    `gorm:"column:number;not null" json:"number"`
	Complement *string   `gorm:"column:complement" json:"complement,omitempty"`
	ZipCode    string    `gorm:"column:zip_code;not null" json:"zip_code"`
	City       string    `gorm:"column:city;not null" json:"city"`
	State      string    `gorm:"column:state;not null" json:"state"`
	Country    string    `gorm:"column:country;not null" json:"country"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
