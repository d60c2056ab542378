package authz

import "rms-backend/internal/models"

// Grant: kontrol zincirini geçen istek için handler'a verilen bağlam.
type Grant struct {
	Actor           *Actor
	EffectiveBranch *uint
}

// Authorize: korumalı bir işlem için sıralı kontrol zinciri. Ucuz kontroller
// önde: kimlik -> rol -> kategori -> efektif şube. İlk başarısız kontrol
// zinciri keser; hiçbir ret yeniden denenmez veya kısmi sonuca indirgenmez.
//
// Kaynağın kendi şubesi ancak kayıt yüklendikten sonra bilinebildiği için
// CheckBranchAccess bu zincirin dışında, CRUD katmanında ayrıca çağrılır.
func Authorize(actor *Actor, allowed []models.UserRole, category ResourceCategory, requestedBranch string) (Grant, Decision) {
	if actor == nil {
		return Grant{}, Deny(DenyUnauthenticated)
	}
	if _, ok := CanonicalRole(string(actor.Role)); !ok {
		// Bozuk oturum: rol reddi değil, kimliksiz istek
		return Grant{}, Deny(DenyUnauthenticated)
	}
	if !IsRoleAllowed(actor.Role, allowed...) {
		return Grant{}, Deny(DenyRole)
	}
	if !IsResourceCategoryAllowed(actor.Role, category) {
		return Grant{}, Deny(DenyCategory)
	}
	eff := ResolveEffectiveBranch(actor, requestedBranch)
	if eff == nil {
		return Grant{}, Deny(DenyBranchRequired)
	}
	return Grant{Actor: actor, EffectiveBranch: eff}, Allow()
}
