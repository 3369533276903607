package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockQuantityは常に0以上（予約でマイナスにはならない）
type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    int64           `gorm:"not null;index" json:"category_id"`
	SubCategoryID int64           `gorm:"not null;index" json:"subcategory_id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int64           `gorm:"not null;default:0" json:"stock_quantity"`
	SKU           string          `gorm:"column:sku;type:varchar(64)" json:"sku"`
	Weight        *float64        `json:"weight"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
