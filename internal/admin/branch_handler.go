package admin

import (
	"strings"

	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BranchResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	TableCount  uint   `json:"table_count"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type CreateBranchRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       *string `json:"phone"` // Opsiyonel
	OpeningTime string  `json:"opening_time"`
	ClosingTime string  `json:"closing_time"`
	TableCount  uint    `json:"table_count"`
}

type UpdateBranchRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	TableCount  *uint   `json:"table_count"`
	IsActive    *bool   `json:"is_active"`
}

func branchToResponse(b *models.Branch) BranchResponse {
	return BranchResponse{
		ID:          b.ID,
		Name:        b.Name,
		Address:     b.Address,
		Phone:       b.Phone,
		OpeningTime: b.OpeningTime,
		ClosingTime: b.ClosingTime,
		TableCount:  b.TableCount,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// ŞUBE CRUD (sadece owner_admin, route seviyesinde RequireRole ile korunur)
// ----------------------------------------

func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
		}

		branch := models.Branch{
			Name:        body.Name,
			Address:     body.Address,
			OpeningTime: body.OpeningTime,
			ClosingTime: body.ClosingTime,
			TableCount:  body.TableCount,
			IsActive:    true,
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(branchToResponse(&branch))
	}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Order("id").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler listelenemedi")
		}

		res := make([]BranchResponse, 0, len(branches))
		for i := range branches {
			res = append(res, branchToResponse(&branches[i]))
		}

		return c.JSON(res)
	}
}

func GetBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		return c.JSON(branchToResponse(&branch))
	}
}

func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
			}
			branch.Name = name
		}
		if body.Address != nil {
			branch.Address = *body.Address
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.OpeningTime != nil {
			branch.OpeningTime = *body.OpeningTime
		}
		if body.ClosingTime != nil {
			branch.ClosingTime = *body.ClosingTime
		}
		if body.TableCount != nil {
			branch.TableCount = *body.TableCount
		}
		if body.IsActive != nil {
			branch.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube güncellenemedi")
		}

		return c.JSON(branchToResponse(&branch))
	}
}

func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var userCount int64
		database.DB.Model(&models.User{}).Where("branch_id = ?", branch.ID).Count(&userCount)
		if userCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Şubeye bağlı kullanıcılar var, önce onları taşıyın")
		}

		if err := database.DB.Delete(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/admin/branches/:id/summary
// Şube özeti: sipariş/rezervasyon/geri bildirim sayıları ve toplam ciro.
func BranchSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var orderCount, reservationCount, feedbackCount, staffCount int64
		var revenue float64

		database.DB.Model(&models.Order{}).Where("branch_id = ?", branch.ID).Count(&orderCount)
		database.DB.Model(&models.Order{}).
			Where("branch_id = ? AND status = ?", branch.ID, models.OrderStatusServed).
			Select("COALESCE(SUM(total), 0)").Scan(&revenue)
		database.DB.Model(&models.Reservation{}).Where("branch_id = ?", branch.ID).Count(&reservationCount)
		database.DB.Model(&models.Feedback{}).Where("branch_id = ?", branch.ID).Count(&feedbackCount)
		database.DB.Model(&models.User{}).
			Where("branch_id = ? AND role IN ?", branch.ID,
				[]models.UserRole{models.RoleBranchManager, models.RoleKitchenStaff, models.RoleFrontStaff}).
			Count(&staffCount)

		return c.JSON(fiber.Map{
			"branch_id":         branch.ID,
			"branch_name":       branch.Name,
			"order_count":       orderCount,
			"served_revenue":    revenue,
			"reservation_count": reservationCount,
			"feedback_count":    feedbackCount,
			"staff_count":       staffCount,
		})
	}
}
