package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/artesania-app/artesania-backend/pkg/types"
)

// Order belongs to one customer and snapshots the shipping address and the
// computed total at creation time.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID      uuid.UUID             `gorm:"column:customer_id;type:uuid;not null" json:"customer_id"`
	Status          enums.OrderStatus     `gorm:"column:status;type:order_status;not null;default:'awaiting_payment'" json:"status"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	ShippingFee     decimal.Decimal       `gorm:"column:shipping_fee;type:numeric(10,2);not null;default:0" json:"shipping_fee"`
	ShippingAddress types.AddressSnapshot `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
