package models

import "time"

// DeliveryPerson represents a member of the delivery staff (entregador)
type DeliveryPerson struct {
	CPF       string    `gorm:"primaryKey;size:14" json:"cpf" binding:"required,max=14"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20;not null" json:"phone" binding:"required"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DeliveryPerson model
func (DeliveryPerson) TableName() string {
	return "delivery_people"
}
