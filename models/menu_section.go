package models

import "time"

// MenuSection represents a section of the menu (cardápio)
type MenuSection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	Description string    `gorm:"size:255;not null" json:"description" binding:"required,max=255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the MenuSection model
func (MenuSection) TableName() string {
	return "menu_sections"
}
