package authz

import (
	"strconv"
	"strings"
)

// ParseBranchID: istekten string olarak gelen şube id'sini katı şekilde çözer.
// Sayısal olmayan veya sıfır değer "tanımsız" sayılır, asla sessizce 0 olmaz.
func ParseBranchID(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// ResolveEffectiveBranch: işlemin hangi şubeye uygulanacağını belirler.
//
// owner_admin dışındaki roller için her zaman kendi şubesi döner; istekle
// gelen branch_id bilinçli olarak yok sayılır (güvenlik sınırı, varsayılan
// değer kolaylığı değil). owner_admin için öncelik sırası: istekle gelen
// değer > aktif şube > kendi şubesi. nil dönerse çağıran işlem
// "şube bilgisi zorunlu" diyerek reddetmelidir.
func ResolveEffectiveBranch(actor *Actor, requested string) *uint {
	if actor == nil {
		return nil
	}

	if !actor.IsAdmin() {
		if actor.HomeBranchID == nil {
			return nil
		}
		bid := *actor.HomeBranchID
		return &bid
	}

	if bid, ok := ParseBranchID(requested); ok {
		return &bid
	}
	if actor.ActiveBranchID != nil {
		bid := *actor.ActiveBranchID
		return &bid
	}
	if actor.HomeBranchID != nil {
		bid := *actor.HomeBranchID
		return &bid
	}
	return nil
}
