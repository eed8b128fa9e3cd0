package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/artesania-app/artesania-backend/pkg/enums"
)

// Product represents an artisan listing. Stock is never negative; mutations
// are restricted to the owning artisan.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ArtisanID      uuid.UUID           `gorm:"column:artisan_id;type:uuid;not null" json:"artisan_id"`
	Title          string              `gorm:"column:title;not null" json:"title"`
	Description    string              `gorm:"column:description;not null;default:''" json:"description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CompareAtPrice decimal.Decimal     `gorm:"column:compare_at_price;type:numeric(10,2);not null" json:"compare_at_price"`
	Stock          int                 `gorm:"column:stock;not null;default:0" json:"stock"`
	Material       *string             `gorm:"column:material" json:"material,omitempty"`
	Weight         *float64            `gorm:"column:weight;type:numeric(8,3)" json:"weight,omitempty"`
	ImageURLs      pq.StringArray      `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]" json:"image_urls"`
	Status         enums.ProductStatus `gorm:"column:status;type:product_status;not null;default:'active'" json:"status"`
	AvgRating      float64             `gorm:"column:avg_rating;type:numeric(3,2);not null;default:0" json:"avg_rating"`
	ReviewCount    int                 `gorm:"column:review_count;not null;default:0" json:"review_count"`
	Categories     []Category          `gorm:"many2many:product_categories" json:"categories,omitempty"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
