package audit

import (
	"fmt"

	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	BranchID    *uint              `json:"branch_id"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entity_type=order&entity_id=1&branch_id=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c,
			[]models.UserRole{models.RoleOwnerAdmin, models.RoleBranchManager},
			authz.CategoryBranches, c.Query("branch_id"))
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AuditLog{}).
			Where("branch_id = ?", *scope.EffectiveBranch)

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				BranchID:    l.BranchID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}

		return c.JSON(resp)
	}
}
