package auth

import (
	"strings"

	"rms-backend/internal/config"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterOwnerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	BranchID uint   `json:"branch_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetActiveBranchRequest struct {
	BranchID uint `json:"branch_id"`
}

// POST /api/auth/register-owner
// İlk kurulum için: sistemde owner_admin yoksa bir tane oluşturur.
func RegisterOwnerHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleOwnerAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir owner admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOwnerAdmin,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/register
// Müşteri kaydı: şube seçimi zorunlu, rol her zaman customer.
func RegisterCustomerHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}
		if body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id zorunlu")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			BranchID:     &branch.ID,
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         models.RoleCustomer,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"branch_id": user.BranchID,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":               user.ID,
				"name":             user.Name,
				"email":            user.Email,
				"role":             user.Role,
				"branch_id":        user.BranchID,
				"active_branch_id": user.ActiveBranchID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		response := fiber.Map{
			"user_id":          user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"role":             user.Role,
			"branch_id":        user.BranchID,
			"active_branch_id": user.ActiveBranchID,
		}

		if user.BranchID != nil {
			var branch models.Branch
			if err := database.DB.First(&branch, *user.BranchID).Error; err == nil {
				response["branch"] = fiber.Map{
					"id":      branch.ID,
					"name":    branch.Name,
					"address": branch.Address,
					"phone":   branch.Phone,
				}
			}
		}

		return c.JSON(response)
	}
}

// PUT /api/auth/active-branch
// Sadece owner_admin, sadece kendi kaydı için. Değer sonraki isteklerde
// kendisi değiştirene kadar geçerli kalır.
func SetActiveBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		if user.Role != models.RoleOwnerAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}

		var body SetActiveBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id zorunlu")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		// Tek satırlık güncelleme, sadece kendi kaydı
		if err := database.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("active_branch_id", branch.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktif şube güncellenemedi")
		}

		return c.JSON(fiber.Map{
			"user_id":          user.ID,
			"active_branch_id": branch.ID,
		})
	}
}
