package authz

import (
	"strings"

	"rms-backend/internal/models"
)

var knownRoles = map[models.UserRole]struct{}{
	models.RoleOwnerAdmin:    {},
	models.RoleBranchManager: {},
	models.RoleKitchenStaff:  {},
	models.RoleFrontStaff:    {},
	models.RoleCustomer:      {},
}

// CanonicalRole: rol adını küçük harfe indirip kapalı enum'a karşı doğrular.
// Çözülemeyen rol "kimliksiz" sayılır, rol uyuşmazlığı değil.
func CanonicalRole(raw string) (models.UserRole, bool) {
	role := models.UserRole(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := knownRoles[role]
	return role, ok
}

// IsRoleAllowed: aktörün rolü izin verilen rol kümesinde mi?
// Boş küme her zaman reddeder (yanlış konfigürasyon açık kapı bırakmasın).
func IsRoleAllowed(role models.UserRole, allowed ...models.UserRole) bool {
	canon, ok := CanonicalRole(string(role))
	if !ok {
		return false
	}
	for _, a := range allowed {
		if ac, ok := CanonicalRole(string(a)); ok && ac == canon {
			return true
		}
	}
	return false
}
