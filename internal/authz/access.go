package authz

// DenyReason: sabit ret kodları. Routing katmanı bunları HTTP yanıtına çevirir.
type DenyReason string

const (
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyRole            DenyReason = "role"
	DenyCategory        DenyReason = "category"
	DenyBranchMismatch  DenyReason = "branch_mismatch"
	DenyBranchRequired  DenyReason = "branch_required"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// CheckBranchAccess: sistemdeki tek güvenlik-kritik karşılaştırma.
// Şubeye bağlı bir kaydı okuyan/değiştiren her işlem bu kontrolden geçmeli;
// rota şube parametresi almasa bile (ör. durum güncellemeleri) kaydın şubesi
// yüklenip buraya verilmelidir.
//
// owner_admin her zaman geçer: üst rol tanım gereği şube kısıtsızdır, liste
// uçları onun için post-hoc kontrolle değil sorgu filtresiyle daraltılır.
// Diğer roller yalnızca kaydın şubesi kendi şubesine eşitse geçer. Eksik
// şube bilgisi hiçbir zaman joker eşleşme sayılmaz.
func CheckBranchAccess(actor *Actor, resourceBranchID *uint) Decision {
	if actor == nil {
		return Deny(DenyUnauthenticated)
	}
	if actor.IsAdmin() {
		return Allow()
	}
	if actor.HomeBranchID == nil || resourceBranchID == nil {
		return Deny(DenyBranchRequired)
	}
	if *resourceBranchID != *actor.HomeBranchID {
		return Deny(DenyBranchMismatch)
	}
	return Allow()
}
