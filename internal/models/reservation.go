package models

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

type Reservation struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"` // Oluşturulduktan sonra değişmez
	Branch   *Branch

	CustomerID *uint
	Customer   *User `gorm:"foreignKey:CustomerID"`

	// Müşteriye verilen onay kodu
	Code string `gorm:"size:36;uniqueIndex;not null"`

	Name      string    `gorm:"size:100;not null"`
	Phone     string    `gorm:"size:50"`
	PartySize uint      `gorm:"not null"`
	ReservedAt time.Time `gorm:"index;not null"`

	Status ReservationStatus `gorm:"size:20;not null;default:pending"`
	Note   string            `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
