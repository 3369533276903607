package model

import "time"

// IsMainは登録時に明示する（並び順からの推測はしない）
type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	ImagePath string    `gorm:"type:varchar(255);not null" json:"image_path"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
