package model

type Category struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Slug    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Picture string `gorm:"type:varchar(255);not null" json:"picture"`
}

type SubCategory struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID int64  `gorm:"not null;index" json:"category_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Slug       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Picture    string `gorm:"type:varchar(255);not null" json:"picture"`
}
