package models

import "time"

type Feedback struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"` // Oluşturulduktan sonra değişmez
	Branch   *Branch

	CustomerID *uint
	Customer   *User `gorm:"foreignKey:CustomerID"`
	OrderID    *uint

	Rating  int    `gorm:"not null"` // 1-5
	Comment string `gorm:"size:1000"`

	// Yönetici yanıtı
	Reply     string `gorm:"size:1000"`
	RepliedBy *uint
	RepliedAt *time.Time

	// Onaylanan yorumlar müşteriye görünür
	Approved bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
