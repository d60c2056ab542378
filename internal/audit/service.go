package audit

import (
	"encoding/json"
	"fmt"

	"rms-backend/internal/database"
	"rms-backend/internal/models"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}
