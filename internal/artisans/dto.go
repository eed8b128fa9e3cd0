package artisans

import (
	"time"

	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyInput carries the fields a customer submits to become an artisan.
type ApplyInput struct {
	StoreName         string  `json:"store_name" validate:"required,min=2,max=120"`
	StoreDescription  *string `json:"store_description,omitempty" validate:"omitempty,max=2000"`
	Identification    string  `json:"identification" validate:"required,max=64"`
	ProofOfAddressURL string  `json:"proof_of_address_url" validate:"required,url,max=2048"`
}

// UpdateInput carries the store fields an approved artisan may edit.
type UpdateInput struct {
	StoreName        *string `json:"store_name,omitempty" validate:"omitempty,min=2,max=120"`
	StoreDescription *string `json:"store_description,omitempty" validate:"omitempty,max=2000"`
}

// Storefront is the public artisan page with its highest rated products.
type Storefront struct {
	ID               uuid.UUID           `json:"id"`
	StoreName        string              `json:"store_name"`
	StoreDescription *string             `json:"store_description,omitempty"`
	Status           enums.ArtisanStatus `json:"status"`
	TopProducts      []models.Product    `json:"top_products"`
	CreatedAt        time.Time           `json:"created_at"`
}

// Dashboard aggregates the seller-facing counters.
type Dashboard struct {
	StoreName        string              `json:"store_name"`
	Status           enums.ArtisanStatus `json:"status"`
	ProductCount     int64               `json:"product_count"`
	AvgRating        float64             `json:"avg_rating"`
	ReviewCount      int64               `json:"review_count"`
	ItemsSold        int64               `json:"items_sold"`
	Revenue          decimal.Decimal     `json:"revenue"`
	PendingItemCount int64               `json:"pending_item_count"`
}

// PendingList is a cursor page of applications awaiting review.
type PendingList struct {
	Artisans   []models.Artisan `json:"artisans"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}
