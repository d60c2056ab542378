package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

type Order struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"` // Oluşturulduktan sonra değişmez
	Branch   *Branch

	CustomerID *uint
	Customer   *User `gorm:"foreignKey:CustomerID"`

	Type    OrderType   `gorm:"size:20;not null"`
	Status  OrderStatus `gorm:"size:20;not null;default:pending"`
	TableNo *uint       // dine_in için
	Note    string      `gorm:"size:255"`
	Total   float64     `gorm:"not null"`

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"index;not null"`

	// Stok düşümü için opsiyonel envanter bağlantısı
	InventoryItemID *uint

	Name      string  `gorm:"size:100;not null"`
	Quantity  uint    `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
}
