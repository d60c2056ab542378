package authz

import "rms-backend/internal/models"

// Actor: doğrulanmış oturumdan türetilen, yetki kararları için gereken asgari bilgi.
type Actor struct {
	ID   uint
	Role models.UserRole

	// Kalıcı olarak atanmış şube (owner_admin dışındaki tüm roller için zorunlu)
	HomeBranchID *uint

	// Sadece owner_admin için anlamlı: üzerinde çalışılan şube (sticky)
	ActiveBranchID *uint
}

// IsAdmin: aktör şube kısıtı olmayan üst rol mü?
func (a *Actor) IsAdmin() bool {
	if a == nil {
		return false
	}
	role, ok := CanonicalRole(string(a.Role))
	return ok && role == models.RoleOwnerAdmin
}
