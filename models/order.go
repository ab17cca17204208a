package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a customer order (pedido). Status is a free-form label.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerCPF string    `gorm:"size:14;not null;index" json:"customer_cpf" binding:"required"`
	Customer    *Customer `gorm:"foreignKey:CustomerCPF;references:CPF" json:"customer,omitempty" binding:"-"`
	PlacedAt    time.Time `gorm:"not null" json:"placed_at"`
	Status      string    `gorm:"size:50;not null" json:"status" binding:"required,max=50"`
	Total       float64   `gorm:"not null;check:total >= 0" json:"total" binding:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate stamps orders that arrive without a placement time
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now()
	}
	return nil
}
