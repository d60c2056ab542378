package orders

import (
	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"
	"rms-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var createRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleFrontStaff, models.RoleCustomer,
}

var viewRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleKitchenStaff,
	models.RoleFrontStaff, models.RoleCustomer,
}

var statusRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleKitchenStaff, models.RoleFrontStaff,
}

type OrderItemRequest struct {
	Name            string  `json:"name"`
	Quantity        uint    `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	InventoryItemID *uint   `json:"inventory_item_id"` // Opsiyonel stok bağlantısı
}

type CreateOrderRequest struct {
	Type    models.OrderType   `json:"type"`
	TableNo *uint              `json:"table_no"`
	Note    string             `json:"note"`
	Items   []OrderItemRequest `json:"items"`
	// owner_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	BranchID   uint                `json:"branch_id"`
	CustomerID *uint               `json:"customer_id"`
	Type       models.OrderType    `json:"type"`
	Status     models.OrderStatus  `json:"status"`
	TableNo    *uint               `json:"table_no"`
	Note       string              `json:"note"`
	Total      float64             `json:"total"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  string              `json:"created_at"`
}

func orderToResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return OrderResponse{
		ID:         o.ID,
		BranchID:   o.BranchID,
		CustomerID: o.CustomerID,
		Type:       o.Type,
		Status:     o.Status,
		TableNo:    o.TableNo,
		Note:       o.Note,
		Total:      o.Total,
		Items:      items,
		CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// -------------------------------------------------
// POST /api/orders
// -------------------------------------------------
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		scope, err := auth.Authorize(c, createRoles, authz.CategoryOrders, auth.BranchParam(body.BranchID))
		if err != nil {
			return err
		}

		switch body.Type {
		case models.OrderTypeDineIn, models.OrderTypeTakeaway, models.OrderTypeDelivery:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş tipi (dine_in|takeaway|delivery)")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş en az bir kalem içermeli")
		}

		branchID := *scope.EffectiveBranch

		order := models.Order{
			BranchID: branchID,
			Type:     body.Type,
			Status:   models.OrderStatusPending,
			TableNo:  body.TableNo,
			Note:     body.Note,
		}
		if scope.User.Role == models.RoleCustomer {
			order.CustomerID = &scope.User.ID
		}

		var total float64
		for _, it := range body.Items {
			if it.Name == "" || it.Quantity == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Kalem adı ve adedi zorunlu")
			}
			if it.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
			}

			// Stoka bağlı kalem: önce kontrol, sonra düşüm
			if it.InventoryItemID != nil {
				var inv models.InventoryItem
				if err := database.DB.First(&inv, "id = ?", *it.InventoryItemID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Envanter kaydı bulunamadı")
				}
				if inv.BranchID != branchID {
					return fiber.NewError(fiber.StatusBadRequest, "Envanter kaydı başka bir şubeye ait")
				}
				if inv.Quantity < float64(it.Quantity) {
					return fiber.NewError(fiber.StatusConflict, "Yetersiz stok: "+inv.Name)
				}
			}

			total += float64(it.Quantity) * it.UnitPrice
			order.Items = append(order.Items, models.OrderItem{
				InventoryItemID: it.InventoryItemID,
				Name:            it.Name,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice,
			})
		}
		order.Total = total

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// Stok düşümleri (basit check-then-decrement; şube değişmezliği yarışı imkânsız kılar)
		for _, it := range order.Items {
			if it.InventoryItemID != nil {
				database.DB.Model(&models.InventoryItem{}).
					Where("id = ?", *it.InventoryItemID).
					Update("quantity", gorm.Expr("quantity - ?", float64(it.Quantity)))
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &order.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: "Sipariş oluşturuldu",
			After:       orderToResponse(&order),
		})

		notify.PublishOrderEvent(notify.OrderEvent{
			Event:    "created",
			OrderID:  order.ID,
			BranchID: order.BranchID,
			Status:   string(order.Status),
			Total:    order.Total,
		})

		return c.Status(fiber.StatusCreated).JSON(orderToResponse(&order))
	}
}

// -------------------------------------------------
// GET /api/orders?status=pending
// Efektif şubeye göre filtrelenir; müşteri sadece kendi siparişlerini görür.
// -------------------------------------------------
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, viewRoles, authz.CategoryOrders, c.Query("branch_id"))
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items").
			Where("branch_id = ?", *scope.EffectiveBranch)

		if scope.User.Role == models.RoleCustomer {
			dbq = dbq.Where("customer_id = ?", scope.User.ID)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var list []models.Order
		if err := dbq.Order("created_at DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(list))
		for i := range list {
			res = append(res, orderToResponse(&list[i]))
		}

		return c.JSON(res)
	}
}

// -------------------------------------------------
// GET /api/orders/:id
// -------------------------------------------------
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, viewRoles, authz.CategoryOrders, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &order.BranchID); err != nil {
			return err
		}
		if scope.User.Role == models.RoleCustomer {
			if order.CustomerID == nil || *order.CustomerID != scope.User.ID {
				return fiber.NewError(fiber.StatusForbidden, "Bu siparişe erişemezsiniz")
			}
		}

		return c.JSON(orderToResponse(&order))
	}
}

// -------------------------------------------------
// PUT /api/orders/:id/status
// Rota şube parametresi almaz; kaydın şubesi yüklenip karşılaştırılır.
// -------------------------------------------------
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, statusRoles, authz.CategoryOrders, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &order.BranchID); err != nil {
			return err
		}

		if !CanTransition(order.Status, body.Status) {
			return fiber.NewError(fiber.StatusBadRequest,
				"Geçersiz durum geçişi: "+string(order.Status)+" -> "+string(body.Status))
		}

		before := orderToResponse(&order)
		order.Status = body.Status

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &order.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: "Sipariş durumu: " + string(before.Status) + " -> " + string(order.Status),
			Before:      before,
			After:       orderToResponse(&order),
		})

		notify.PublishOrderEvent(notify.OrderEvent{
			Event:    "status_changed",
			OrderID:  order.ID,
			BranchID: order.BranchID,
			Status:   string(order.Status),
			Total:    order.Total,
		})

		return c.JSON(orderToResponse(&order))
	}
}
