package models

import (
	"errors"
	"time"

	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"gorm.io/gorm"
)

// ErrPasswordRequired is returned when a customer is created without any password
var ErrPasswordRequired = errors.New("password is required")

// Customer represents a registered customer (cliente), keyed by CPF
type Customer struct {
	CPF          string    `gorm:"primaryKey;size:14" json:"cpf" binding:"required,max=14"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone        string    `gorm:"size:20;not null" json:"phone" binding:"required"`
	Address      string    `gorm:"size:255;not null" json:"address" binding:"required"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email" binding:"required"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Password     string    `gorm:"-" json:"password,omitempty" binding:"max=72"` // write-only, hashed on save
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// BeforeSave hashes a plaintext password set through the write-only field
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if c.Password == "" {
		return nil
	}
	hash, err := utils.HashPassword(c.Password)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	c.Password = ""
	return nil
}

// BeforeCreate refuses rows that could never log in
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.PasswordHash == "" && c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
