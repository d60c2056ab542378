package models

import "time"

type InventoryItem struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"` // Oluşturulduktan sonra değişmez
	Branch   *Branch

	Name string `gorm:"size:100;not null"`
	SKU  string `gorm:"size:50;index"`
	Unit string `gorm:"size:20;not null"` // "adet", "kg", "lt"

	Quantity          float64 `gorm:"not null"`
	LowStockThreshold float64 // Altına düşünce listede işaretlenir

	CreatedAt time.Time
	UpdatedAt time.Time
}
