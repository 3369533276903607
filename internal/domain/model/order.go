package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusReserved  OrderStatus = "RESERVED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PAID / CANCELLED は終端。そこからの遷移は無い。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod   string          `gorm:"type:varchar(64);not null" json:"payment_method"`
	ShippingMethod  string          `gorm:"type:varchar(64);not null" json:"shipping_method"`
	ShippingAddress string          `gorm:"type:varchar(255)" json:"shipping_address"`
	Comment         string          `gorm:"type:text" json:"comment"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	PaidAt          *time.Time      `json:"paid_at"`
}
