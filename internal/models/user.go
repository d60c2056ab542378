package models

import "time"

type UserRole string

const (
	RoleOwnerAdmin    UserRole = "owner_admin"
	RoleBranchManager UserRole = "branch_manager"
	RoleKitchenStaff  UserRole = "kitchen_staff"
	RoleFrontStaff    UserRole = "front_staff"
	RoleCustomer      UserRole = "customer"
)

type User struct {
	ID       uint `gorm:"primaryKey"`
	BranchID *uint
	Branch   *Branch
	// owner_admin için: üzerinde çalışılan şube (sticky, kendisi değiştirene kadar kalır)
	ActiveBranchID *uint
	Name           string   `gorm:"size:100;not null"`
	Email          string   `gorm:"size:100;uniqueIndex;not null"`
	Phone          string   `gorm:"size:50"`
	PasswordHash   string   `gorm:"size:255;not null"`
	Role           UserRole `gorm:"size:20;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
