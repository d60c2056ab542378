package models

import "time"

type Branch struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null;unique"`
	Address string `gorm:"size:255"`
	Phone   string `gorm:"size:50"` // Opsiyonel telefon

	// Şube ayarları
	OpeningTime string `gorm:"size:5"` // "09:00" formatında
	ClosingTime string `gorm:"size:5"`
	TableCount  uint
	IsActive    bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
