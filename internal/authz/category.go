package authz

import "rms-backend/internal/models"

// ResourceCategory: şube eşleşmesinden bağımsız, rol bazlı kaynak sınıfı.
type ResourceCategory string

const (
	CategoryOrders       ResourceCategory = "orders"
	CategoryInventory    ResourceCategory = "inventory"
	CategoryReservations ResourceCategory = "reservations"
	CategoryFeedback     ResourceCategory = "feedback"
	CategoryStaff        ResourceCategory = "staff"
	CategoryBranches     ResourceCategory = "branches"
)

// IsResourceCategoryAllowed: rolün bu kaynak sınıfına erişimi var mı?
// kitchen_staff yalnızca siparişlerle çalışır; şube eşleşse bile diğer
// kategoriler reddedilir. Diğer roller için kısıt rota bazlı rol kontrolünde.
func IsResourceCategoryAllowed(role models.UserRole, category ResourceCategory) bool {
	canon, ok := CanonicalRole(string(role))
	if !ok {
		return false
	}
	if canon == models.RoleKitchenStaff {
		return category == CategoryOrders
	}
	return true
}
