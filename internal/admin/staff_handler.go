package admin

import (
	"strings"

	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var staffManagerRoles = []models.UserRole{models.RoleOwnerAdmin, models.RoleBranchManager}

// Liste tüm personel rollerine açık; kitchen_staff kategori kısıtına takılır
var staffViewRoles = []models.UserRole{
	models.RoleOwnerAdmin, models.RoleBranchManager, models.RoleKitchenStaff, models.RoleFrontStaff,
}

// Şube personeli rolleri (customer ve owner_admin personel sayılmaz)
var staffRoles = []models.UserRole{models.RoleBranchManager, models.RoleKitchenStaff, models.RoleFrontStaff}

type CreateStaffRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	// owner_admin için opsiyonel, yoksa efektif şube kullanılır
	BranchID *uint `json:"branch_id"`
}

type UpdateStaffRequest struct {
	Name  *string          `json:"name"`
	Phone *string          `json:"phone"`
	Role  *models.UserRole `json:"role"`
}

type StaffResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Role      models.UserRole `json:"role"`
	BranchID  *uint           `json:"branch_id"`
	CreatedAt string          `json:"created_at"`
}

func staffToResponse(u *models.User) StaffResponse {
	return StaffResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func isStaffRole(role models.UserRole) bool {
	return authz.IsRoleAllowed(role, staffRoles...)
}

// branch_manager yalnızca mutfak/salon personeli yönetebilir
func canManageStaffRole(actorRole, targetRole models.UserRole) bool {
	if actorRole == models.RoleOwnerAdmin {
		return isStaffRole(targetRole)
	}
	return authz.IsRoleAllowed(targetRole, models.RoleKitchenStaff, models.RoleFrontStaff)
}

// POST /api/staff
func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		scope, err := auth.Authorize(c, staffManagerRoles, authz.CategoryStaff, auth.BranchParam(body.BranchID))
		if err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		role, ok := authz.CanonicalRole(string(body.Role))
		if !ok || !isStaffRole(role) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel rolü")
		}
		if !canManageStaffRole(scope.User.Role, role) {
			return fiber.NewError(fiber.StatusForbidden, "Bu rolde personel oluşturma yetkiniz yok")
		}

		branchID := *scope.EffectiveBranch
		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			BranchID:     &branchID,
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    user.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "staff",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: "Personel oluşturuldu: " + user.Name,
			After:       staffToResponse(&user),
		})

		return c.Status(fiber.StatusCreated).JSON(staffToResponse(&user))
	}
}

// GET /api/staff
// Efektif şubenin personel listesi.
func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, staffViewRoles, authz.CategoryStaff, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var users []models.User
		if err := database.DB.
			Where("branch_id = ? AND role IN ?", *scope.EffectiveBranch, staffRoles).
			Order("id").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listelenemedi")
		}

		res := make([]StaffResponse, 0, len(users))
		for i := range users {
			res = append(res, staffToResponse(&users[i]))
		}

		return c.JSON(res)
	}
}

// PUT /api/staff/:id
func UpdateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, staffManagerRoles, authz.CategoryStaff, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}
		if !isStaffRole(user.Role) {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		// Kaydın şubesi ile aktörün şubesi karşılaştırılır
		if err := auth.RequireBranchAccess(scope, user.BranchID); err != nil {
			return err
		}
		if !canManageStaffRole(scope.User.Role, user.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Bu personeli yönetme yetkiniz yok")
		}

		before := staffToResponse(&user)

		var body UpdateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			user.Name = name
		}
		if body.Phone != nil {
			user.Phone = *body.Phone
		}
		if body.Role != nil {
			role, ok := authz.CanonicalRole(string(*body.Role))
			if !ok || !isStaffRole(role) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel rolü")
			}
			if !canManageStaffRole(scope.User.Role, role) {
				return fiber.NewError(fiber.StatusForbidden, "Bu rolü atama yetkiniz yok")
			}
			user.Role = role
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    user.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "staff",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: "Personel güncellendi: " + user.Name,
			Before:      before,
			After:       staffToResponse(&user),
		})

		return c.JSON(staffToResponse(&user))
	}
}

// DELETE /api/staff/:id
func DeleteStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.Authorize(c, staffManagerRoles, authz.CategoryStaff, c.Query("branch_id"))
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}
		if !isStaffRole(user.Role) {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		if err := auth.RequireBranchAccess(scope, user.BranchID); err != nil {
			return err
		}
		if !canManageStaffRole(scope.User.Role, user.Role) {
			return fiber.NewError(fiber.StatusForbidden, "Bu personeli yönetme yetkiniz yok")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel silinemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    user.BranchID,
			UserID:      scope.User.ID,
			UserName:    scope.User.Name,
			EntityType:  "staff",
			EntityID:    user.ID,
			Action:      models.AuditActionDelete,
			Description: "Personel silindi: " + user.Name,
			Before:      staffToResponse(&user),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
