package orders

import (
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateInput carries the checkout payload: a saved address and the line
// items to purchase.
type CreateInput struct {
	AddressID uuid.UUID   `json:"address_id" validate:"required"`
	Items     []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// ItemInput is one requested product line.
type ItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// OrderList is a cursor page of orders.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// SalesList is a cursor page of sold items for an artisan.
type SalesList struct {
	Items      []models.OrderItem `json:"items"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}
