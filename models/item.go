// models/item.go
package models

import "time"

const ItemTable = "ld_items"

type Item struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"size:200;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	Brand       string       `gorm:"size:120" json:"brand,omitempty"`
	Category    ItemCategory `gorm:"size:30;not null" json:"category"`

	// Ledger counters. Stock + BorrowedQuantity is constant for the lifetime
	// of the item; only the Stock Ledger may move quantity between the two.
	Stock            int `gorm:"not null;default:0" json:"stock"`
	BorrowedQuantity int `gorm:"not null;default:0" json:"borrowedQuantity"`

	ConditionStatus    ItemCondition    `gorm:"size:20;not null;default:'good'" json:"conditionStatus"`
	AvailabilityStatus ItemAvailability `gorm:"size:20;not null;default:'available'" json:"availabilityStatus"`
	StatusNotes        string           `gorm:"size:255" json:"statusNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
