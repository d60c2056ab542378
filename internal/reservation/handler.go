package reservation

import (
	"strings"
	"time"

	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var createRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleFrontStaff, models.RoleCustomer,
}

var manageRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleFrontStaff,
}

var viewRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleFrontStaff, models.RoleCustomer,
}

// Rezervasyon durum makinesi: pending -> confirmed -> seated.
// no_show sadece onaylanmış rezervasyon için anlamlı.
var transitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationStatusPending:   {models.ReservationStatusConfirmed, models.ReservationStatusCancelled},
	models.ReservationStatusConfirmed: {models.ReservationStatusSeated, models.ReservationStatusCancelled, models.ReservationStatusNoShow},
	models.ReservationStatusSeated:    {},
	models.ReservationStatusCancelled: {},
	models.ReservationStatusNoShow:    {},
}

func CanTransition(from, to models.ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateReservationRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PartySize  uint   `json:"party_size"`
	ReservedAt string `json:"reserved_at"` // "2025-12-09 19:30" formatında
	Note       string `json:"note"`
	// owner_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type UpdateStatusRequest struct {
	Status models.ReservationStatus `json:"status"`
}

type ReservationResponse struct {
	ID         uint                     `json:"id"`
	BranchID   uint                     `json:"branch_id"`
	CustomerID *uint                    `json:"customer_id"`
	Code       string                   `json:"code"`
	Name       string                   `json:"name"`
	Phone      string                   `json:"phone"`
	PartySize  uint                     `json:"party_size"`
	ReservedAt string                   `json:"reserved_at"`
	Status     models.ReservationStatus `json:"status"`
	Note       string                   `json:"note"`
}

func toResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		BranchID:   r.BranchID,
		CustomerID: r.CustomerID,
		Code:       r.Code,
		Name:       r.Name,
		Phone:      r.Phone,
		PartySize:  r.PartySize,
		ReservedAt: r.ReservedAt.Format("2006-01-02 15:04"),
		Status:     r.Status,
		Note:       r.Note,
	}
}

// POST /api/reservations
func CreateReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		scope, err := auth.Authorize(c, createRoles, authz.CategoryReservations, auth.BranchParam(body.BranchID))
		if err != nil {
			return err
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim zorunlu")
		}
		if body.PartySize == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kişi sayısı zorunlu")
		}

		reservedAt, err := time.Parse("2006-01-02 15:04", body.ReservedAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD HH:MM' olmalı")
		}

		res := models.Reservation{
			BranchID:   *scope.EffectiveBranch,
			Code:       uuid.NewString(),
			Name:       body.Name,
			Phone:      body.Phone,
			PartySize:  body.PartySize,
			ReservedAt: reservedAt,
			Status:     models.ReservationStatusPending,
			Note:       body.Note,
		}
		if scope.User.Role == models.RoleCustomer {
			res.CustomerID = &scope.User.ID
		}

		if err := database.DB.Create(&res).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rezervasyon oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &res.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionCreate,
			Description: "Rezervasyon oluşturuldu: " + res.Name,
			After:       toResponse(&res),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&res))
	}
}

// GET /api/reservations?status=pending&date=2025-12-09
func ListReservationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, viewRoles, authz.CategoryReservations, c.Query("branch_id"))
		if err != nil {
			return err
		}

		dbq := database.DB.Where("branch_id = ?", *scope.EffectiveBranch)

		if scope.User.Role == models.RoleCustomer {
			dbq = dbq.Where("customer_id = ?", scope.User.ID)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if date := c.Query("date"); date != "" {
			d, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("reserved_at >= ? AND reserved_at < ?", d, d.AddDate(0, 0, 1))
		}

		var list []models.Reservation
		if err := dbq.Order("reserved_at").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rezervasyonlar listelenemedi")
		}

		res := make([]ReservationResponse, 0, len(list))
		for i := range list {
			res = append(res, toResponse(&list[i]))
		}

		return c.JSON(res)
	}
}

// GET /api/reservations/:id
func GetReservationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, viewRoles, authz.CategoryReservations, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var res models.Reservation
		if err := database.DB.First(&res, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rezervasyon bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &res.BranchID); err != nil {
			return err
		}
		if scope.User.Role == models.RoleCustomer {
			if res.CustomerID == nil || *res.CustomerID != scope.User.ID {
				return fiber.NewError(fiber.StatusForbidden, "Bu rezervasyona erişemezsiniz")
			}
		}

		return c.JSON(toResponse(&res))
	}
}

// PUT /api/reservations/:id/status
func UpdateReservationStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, manageRoles, authz.CategoryReservations, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var res models.Reservation
		if err := database.DB.First(&res, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rezervasyon bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, &res.BranchID); err != nil {
			return err
		}

		if !CanTransition(res.Status, body.Status) {
			return fiber.NewError(fiber.StatusBadRequest,
				"Geçersiz durum geçişi: "+string(res.Status)+" -> "+string(body.Status))
		}

		before := toResponse(&res)
		res.Status = body.Status

		if err := database.DB.Save(&res).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rezervasyon güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &res.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionUpdate,
			Description: "Rezervasyon durumu: " + string(before.Status) + " -> " + string(res.Status),
			Before:      before,
			After:       toResponse(&res),
		})

		return c.JSON(toResponse(&res))
	}
}
