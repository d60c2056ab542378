package inventory

import (
	"strings"

	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

var manageRoles = []models.UserRole{models.RoleOwnerAdmin, models.RoleBranchManager}

type CreateItemRequest struct {
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Unit              string  `json:"unit"`
	Quantity          float64 `json:"quantity"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	// owner_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type UpdateItemRequest struct {
	Name              *string  `json:"name"`
	SKU               *string  `json:"sku"`
	Unit              *string  `json:"unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
}

type AdjustItemRequest struct {
	// Pozitif giriş, negatif düşüm
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

type ItemResponse struct {
	ID                uint    `json:"id"`
	BranchID          uint    `json:"branch_id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Unit              string  `json:"unit"`
	Quantity          float64 `json:"quantity"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	LowStock          bool    `json:"low_stock"`
}

func itemToResponse(it *models.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                it.ID,
		BranchID:          it.BranchID,
		Name:              it.Name,
		SKU:               it.SKU,
		Unit:              it.Unit,
		Quantity:          it.Quantity,
		LowStockThreshold: it.LowStockThreshold,
		LowStock:          it.LowStockThreshold > 0 && it.Quantity <= it.LowStockThreshold,
	}
}

// POST /api/inventory
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		scope, err := auth.Authorize(c, manageRoles, authz.CategoryInventory, auth.BranchParam(body.BranchID))
		if err != nil {
			return err
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı ve birim zorunlu")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
		}

		item := models.InventoryItem{
			BranchID:          *scope.EffectiveBranch,
			Name:              body.Name,
			SKU:               strings.TrimSpace(body.SKU),
			Unit:              body.Unit,
			Quantity:          body.Quantity,
			LowStockThreshold: body.LowStockThreshold,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &item.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "Envanter kaydı oluşturuldu: " + item.Name,
			After:       itemToResponse(&item),
		})

		return c.Status(fiber.StatusCreated).JSON(itemToResponse(&item))
	}
}

// GET /api/inventory?low_stock=1
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryInventory, c.Query("branch_id"))
		if err != nil {
			return err
		}

		dbq := database.DB.Where("branch_id = ?", *scope.EffectiveBranch)
		if c.Query("low_stock") == "1" {
			dbq = dbq.Where("low_stock_threshold > 0 AND quantity <= low_stock_threshold")
		}

		var items []models.InventoryItem
		if err := dbq.Order("name").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter listelenemedi")
		}

		res := make([]ItemResponse, 0, len(items))
		for i := range items {
			res = append(res, itemToResponse(&items[i]))
		}

		return c.JSON(res)
	}
}

// PUT /api/inventory/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryInventory, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &item.BranchID); err != nil {
			return err
		}

		before := itemToResponse(&item)

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			item.Name = name
		}
		if body.SKU != nil {
			item.SKU = strings.TrimSpace(*body.SKU)
		}
		if body.Unit != nil {
			item.Unit = *body.Unit
		}
		if body.LowStockThreshold != nil {
			item.LowStockThreshold = *body.LowStockThreshold
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &item.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: "Envanter kaydı güncellendi: " + item.Name,
			Before:      before,
			After:       itemToResponse(&item),
		})

		return c.JSON(itemToResponse(&item))
	}
}

// POST /api/inventory/:id/adjust
// Stok giriş/düşüm: negatif delta mevcut miktarın altına inemez.
func AdjustItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryInventory, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &item.BranchID); err != nil {
			return err
		}

		var body AdjustItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "delta sıfır olamaz")
		}
		if item.Quantity+body.Delta < 0 {
			return fiber.NewError(fiber.StatusConflict, "Yetersiz stok: "+item.Name)
		}

		before := itemToResponse(&item)
		item.Quantity += body.Delta

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &item.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: "Stok düzeltildi: " + item.Name + " (" + body.Reason + ")",
			Before:      before,
			After:       itemToResponse(&item),
		})

		return c.JSON(itemToResponse(&item))
	}
}

// DELETE /api/inventory/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryInventory, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &item.BranchID); err != nil {
			return err
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &item.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionDelete,
			Description: "Envanter kaydı silindi: " + item.Name,
			Before:      itemToResponse(&item),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
