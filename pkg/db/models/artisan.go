package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/artesania-app/artesania-backend/pkg/enums"
)

// Artisan is the seller profile attached one-to-one to a user. Profiles are
// created only through the application flow and start in the pending status.
type Artisan struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	StoreName         string              `gorm:"column:store_name;not null" json:"store_name"`
	StoreDescription  *string             `gorm:"column:store_description" json:"store_description,omitempty"`
	Identification    string              `gorm:"column:identification;not null" json:"identification"`
	ProofOfAddressURL string              `gorm:"column:proof_of_address_url;not null" json:"proof_of_address_url"`
	Status            enums.ArtisanStatus `gorm:"column:status;type:artisan_status;not null;default:'pending'" json:"status"`
	Products          []Product           `gorm:"foreignKey:ArtisanID" json:"products,omitempty"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
