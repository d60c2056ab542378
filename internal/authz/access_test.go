package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rms-backend/internal/models"
)

func TestCheckBranchAccess_NonAdmin(t *testing.T) {
	t.Run("same branch allowed", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleBranchManager, HomeBranchID: uintPtr(5)}
		dec := CheckBranchAccess(actor, uintPtr(5))
		assert.True(t, dec.Allowed)
	})

	t.Run("branch mismatch denied", func(t *testing.T) {
		// Senaryo: branch_manager (şube 5), şube 7'nin kaydını istiyor
		actor := &Actor{ID: 1, Role: models.RoleBranchManager, HomeBranchID: uintPtr(5)}
		dec := CheckBranchAccess(actor, uintPtr(7))
		assert.False(t, dec.Allowed)
		assert.Equal(t, DenyBranchMismatch, dec.Reason)
	})

	t.Run("missing resource branch is never a wildcard", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleFrontStaff, HomeBranchID: uintPtr(2)}
		dec := CheckBranchAccess(actor, nil)
		assert.False(t, dec.Allowed)
		assert.Equal(t, DenyBranchRequired, dec.Reason)
	})

	t.Run("missing home branch denied", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleKitchenStaff}
		dec := CheckBranchAccess(actor, uintPtr(2))
		assert.False(t, dec.Allowed)
		assert.Equal(t, DenyBranchRequired, dec.Reason)
	})
}

func TestCheckBranchAccess_Admin(t *testing.T) {
	// owner_admin şube kısıtsız: aktif şubesi ne olursa olsun her kayda erişir
	actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1), ActiveBranchID: uintPtr(3)}

	for _, resource := range []*uint{uintPtr(1), uintPtr(3), uintPtr(42), nil} {
		dec := CheckBranchAccess(actor, resource)
		assert.True(t, dec.Allowed)
	}
}

func TestCheckBranchAccess_NilActor(t *testing.T) {
	dec := CheckBranchAccess(nil, uintPtr(1))
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyUnauthenticated, dec.Reason)
}
