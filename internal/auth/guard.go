package auth

import (
	"strconv"

	"rms-backend/internal/authz"
	"rms-backend/internal/database"
	"rms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Scope: kontrol zincirini geçen istek için handler'a verilen yetki bağlamı.
type Scope struct {
	Actor           *authz.Actor
	User            *models.User
	EffectiveBranch *uint
}

// CurrentUser: oturumdaki kullanıcıyı veritabanından yükler.
// ActiveBranchID token'a değil satıra yazıldığı için her istekte taze okunur.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Oturum doğrulanamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Oturum doğrulanamadı")
	}
	return &user, nil
}

func actorFromUser(user *models.User) *authz.Actor {
	return &authz.Actor{
		ID:             user.ID,
		Role:           user.Role,
		HomeBranchID:   user.BranchID,
		ActiveBranchID: user.ActiveBranchID,
	}
}

// Authorize: rol + kategori + efektif şube zincirini çalıştırır.
// requestedBranch yalnızca owner_admin için anlamlıdır; diğer roller için
// çözümleyici onu zaten yok sayar.
func Authorize(c *fiber.Ctx, allowed []models.UserRole, category authz.ResourceCategory, requestedBranch string) (*Scope, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return nil, err
	}

	actor := actorFromUser(user)
	grant, dec := authz.Authorize(actor, allowed, category, requestedBranch)
	if !dec.Allowed {
		return nil, DecisionError(dec)
	}

	return &Scope{Actor: actor, User: user, EffectiveBranch: grant.EffectiveBranch}, nil
}

// RequireBranchAccess: kaydın şubesi yüklendikten sonra çağrılır.
func RequireBranchAccess(scope *Scope, resourceBranchID *uint) error {
	if dec := authz.CheckBranchAccess(scope.Actor, resourceBranchID); !dec.Allowed {
		return DecisionError(dec)
	}
	return nil
}

// DecisionError: sabit ret kodlarını HTTP yanıtına çevirir.
func DecisionError(dec authz.Decision) error {
	switch dec.Reason {
	case authz.DenyUnauthenticated:
		return fiber.NewError(fiber.StatusUnauthorized, "Oturum doğrulanamadı")
	case authz.DenyRole:
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	case authz.DenyCategory:
		return fiber.NewError(fiber.StatusForbidden, "Bu kaynak türü için yetkiniz yok")
	case authz.DenyBranchMismatch:
		return fiber.NewError(fiber.StatusForbidden, "Bu şubenin kaydına erişemezsiniz")
	case authz.DenyBranchRequired:
		return fiber.NewError(fiber.StatusBadRequest, "Şube bilgisi zorunlu")
	default:
		return fiber.NewError(fiber.StatusForbidden, "Erişim reddedildi")
	}
}

// BranchParam: body'den pointer olarak gelen şube id'sini çözümleyiciye
// verilecek string biçimine çevirir.
func BranchParam(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
