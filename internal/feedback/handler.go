package feedback

import (
	"strings"
	"time"

	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

var manageRoles = []models.UserRole{models.RoleOwnerAdmin, models.RoleBranchManager}

type CreateFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	OrderID *uint  `json:"order_id"`
}

type ReplyFeedbackRequest struct {
	Reply string `json:"reply"`
}

type FeedbackResponse struct {
	ID         uint    `json:"id"`
	BranchID   uint    `json:"branch_id"`
	CustomerID *uint   `json:"customer_id"`
	OrderID    *uint   `json:"order_id"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
	Reply      string  `json:"reply"`
	RepliedAt  *string `json:"replied_at"`
	Approved   bool    `json:"approved"`
	CreatedAt  string  `json:"created_at"`
}

func toResponse(f *models.Feedback) FeedbackResponse {
	var repliedAt *string
	if f.RepliedAt != nil {
		s := f.RepliedAt.Format("2006-01-02 15:04:05")
		repliedAt = &s
	}
	return FeedbackResponse{
		ID:         f.ID,
		BranchID:   f.BranchID,
		CustomerID: f.CustomerID,
		OrderID:    f.OrderID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		Reply:      f.Reply,
		RepliedAt:  repliedAt,
		Approved:   f.Approved,
		CreatedAt:  f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/feedback
// Müşteri kendi şubesine geri bildirim bırakır. Siparişe bağlıysa sipariş
// de aynı şubeye ve aynı müşteriye ait olmalı.
func CreateFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, []models.UserRole{models.RoleCustomer}, authz.CategoryFeedback, "")
		if err != nil {
			return err
		}

		var body CreateFeedbackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Rating < 1 || body.Rating > 5 {
			return fiber.NewError(fiber.StatusBadRequest, "Puan 1-5 arasında olmalı")
		}

		fb := models.Feedback{
			BranchID:   *scope.EffectiveBranch,
			CustomerID: &scope.User.ID,
			Rating:     body.Rating,
			Comment:    strings.TrimSpace(body.Comment),
		}

		if body.OrderID != nil {
			var order models.Order
			if err := database.DB.First(&order, "id = ?", *body.OrderID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Sipariş bulunamadı")
			}
			if order.BranchID != fb.BranchID {
				return fiber.NewError(fiber.StatusBadRequest, "Sipariş başka bir şubeye ait")
			}
			if order.CustomerID == nil || *order.CustomerID != scope.User.ID {
				return fiber.NewError(fiber.StatusForbidden, "Bu siparişe geri bildirim bırakamazsınız")
			}
			fb.OrderID = body.OrderID
		}

		if err := database.DB.Create(&fb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Geri bildirim oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&fb))
	}
}

// GET /api/feedback?approved=1&min_rating=3
func ListFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryFeedback, c.Query("branch_id"))
		if err != nil {
			return err
		}

		dbq := database.DB.Where("branch_id = ?", *scope.EffectiveBranch)

		if approved := c.Query("approved"); approved == "1" {
			dbq = dbq.Where("approved = ?", true)
		} else if approved == "0" {
			dbq = dbq.Where("approved = ?", false)
		}
		if minRating := c.QueryInt("min_rating"); minRating > 0 {
			dbq = dbq.Where("rating >= ?", minRating)
		}

		var list []models.Feedback
		if err := dbq.Order("created_at DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Geri bildirimler listelenemedi")
		}

		res := make([]FeedbackResponse, 0, len(list))
		for i := range list {
			res = append(res, toResponse(&list[i]))
		}

		return c.JSON(res)
	}
}

// PUT /api/feedback/:id/reply
func ReplyFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryFeedback, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var fb models.Feedback
		if err := database.DB.First(&fb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Geri bildirim bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &fb.BranchID); err != nil {
			return err
		}

		var body ReplyFeedbackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		body.Reply = strings.TrimSpace(body.Reply)
		if body.Reply == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Yanıt boş olamaz")
		}

		before := toResponse(&fb)
		now := time.Now()
		fb.Reply = body.Reply
		fb.RepliedBy = &scope.User.ID
		fb.RepliedAt = &now

		if err := database.DB.Save(&fb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yanıt kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &fb.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "feedback",
			EntityID:    fb.ID,
			Action:      models.AuditActionUpdate,
			Description: "Geri bildirime yanıt verildi",
			Before:      before,
			After:       toResponse(&fb),
		})

		return c.JSON(toResponse(&fb))
	}
}

// PUT /api/feedback/:id/approve
func ApproveFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryFeedback, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var fb models.Feedback
		if err := database.DB.First(&fb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Geri bildirim bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &fb.BranchID); err != nil {
			return err
		}

		before := toResponse(&fb)
		fb.Approved = true

		if err := database.DB.Save(&fb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Geri bildirim onaylanamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &fb.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "feedback",
			EntityID:    fb.ID,
			Action:      models.AuditActionUpdate,
			Description: "Geri bildirim onaylandı",
			Before:      before,
			After:       toResponse(&fb),
		})

		return c.JSON(toResponse(&fb))
	}
}

// DELETE /api/feedback/:id
func DeleteFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryFeedback, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var fb models.Feedback
		if err := database.DB.First(&fb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Geri bildirim bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &fb.BranchID); err != nil {
			return err
		}

		if err := database.DB.Delete(&fb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Geri bildirim silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &fb.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "feedback",
			EntityID:    fb.ID,
			Action:      models.AuditActionDelete,
			Description: "Geri bildirim silindi",
			Before:      toResponse(&fb),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
