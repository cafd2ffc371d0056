package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status order
const (
	OrderStatusOpen      = "open"
	OrderStatusFinalized = "finalized"
)

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderCode   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_code"`
	TableNumber int             `gorm:"not null;index" json:"table_number"`
	Status      string          `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	GST         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"gst"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	FinalizedAt *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// IsOpen -> order masih bisa diubah selama belum finalized
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}
