package products

import (
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput carries the fields required to publish a listing.
type CreateInput struct {
	Title          string           `json:"title" validate:"required,min=2,max=200"`
	Description    string           `json:"description" validate:"max=5000"`
	Price          decimal.Decimal  `json:"price" validate:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock" validate:"gte=0"`
	Material       *string          `json:"material,omitempty" validate:"omitempty,max=120"`
	Weight         *float64         `json:"weight,omitempty" validate:"omitempty,gt=0"`
	CategoryIDs    []uuid.UUID      `json:"category_ids" validate:"required,min=1,dive,required"`
}

// UpdateInput carries the optional fields of a listing edit.
type UpdateInput struct {
	Title          *string          `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Material       *string          `json:"material,omitempty" validate:"omitempty,max=120"`
	Weight         *float64         `json:"weight,omitempty" validate:"omitempty,gt=0"`
	CategoryIDs    []uuid.UUID      `json:"category_ids,omitempty" validate:"omitempty,min=1,dive,required"`
}

// StockInput carries a stock adjustment amount.
type StockInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ListFilters narrows the public catalog listing.
type ListFilters struct {
	CategoryID *uuid.UUID
	Search     string
}

// ProductList is a cursor page of listings.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}
