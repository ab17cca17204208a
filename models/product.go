package models

import "time"

// Product represents an item that can be ordered
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	Description string    `gorm:"size:255;not null" json:"description" binding:"required,max=255"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price" binding:"gte=0"`
	ImageKey    *string   `gorm:"size:255" json:"image_key"`                 // nullable, storage key of the product image
	ImageURL    *string   `gorm:"-" json:"image_url,omitempty" binding:"-"` // computed field
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
