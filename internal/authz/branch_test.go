package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms-backend/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestParseBranchID(t *testing.T) {
	cases := []struct {
		raw  string
		want uint
		ok   bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
		{"3.5", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseBranchID(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestResolveEffectiveBranch_NonAdmin(t *testing.T) {
	roles := []models.UserRole{
		models.RoleBranchManager,
		models.RoleKitchenStaff,
		models.RoleFrontStaff,
		models.RoleCustomer,
	}

	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			actor := &Actor{ID: 1, Role: role, HomeBranchID: uintPtr(5)}

			// İstekle ne gelirse gelsin her zaman kendi şubesi
			for _, requested := range []string{"", "5", "9", "abc", "0", "-1"} {
				got := ResolveEffectiveBranch(actor, requested)
				require.NotNil(t, got, "requested=%q", requested)
				assert.Equal(t, uint(5), *got, "requested=%q", requested)
			}
		})
	}

	t.Run("home branch missing resolves to nil", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleBranchManager}
		assert.Nil(t, ResolveEffectiveBranch(actor, "7"))
	})
}

func TestResolveEffectiveBranch_Admin(t *testing.T) {
	t.Run("requested wins over active and home", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1), ActiveBranchID: uintPtr(3)}
		got := ResolveEffectiveBranch(actor, "7")
		require.NotNil(t, got)
		assert.Equal(t, uint(7), *got)
	})

	t.Run("active wins when requested absent", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1), ActiveBranchID: uintPtr(3)}
		got := ResolveEffectiveBranch(actor, "")
		require.NotNil(t, got)
		assert.Equal(t, uint(3), *got)
	})

	t.Run("non-numeric requested falls through to active", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1), ActiveBranchID: uintPtr(3)}
		got := ResolveEffectiveBranch(actor, "abc")
		require.NotNil(t, got)
		assert.Equal(t, uint(3), *got)
	})

	t.Run("zero requested falls through, never a silent zero", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1)}
		got := ResolveEffectiveBranch(actor, "0")
		require.NotNil(t, got)
		assert.Equal(t, uint(1), *got)
	})

	t.Run("home is the last fallback", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1)}
		got := ResolveEffectiveBranch(actor, "")
		require.NotNil(t, got)
		assert.Equal(t, uint(1), *got)
	})

	t.Run("nothing defined resolves to nil", func(t *testing.T) {
		actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin}
		assert.Nil(t, ResolveEffectiveBranch(actor, "x"))
	})
}

func TestResolveEffectiveBranch_Idempotent(t *testing.T) {
	actor := &Actor{ID: 1, Role: models.RoleOwnerAdmin, HomeBranchID: uintPtr(1), ActiveBranchID: uintPtr(3)}

	first := ResolveEffectiveBranch(actor, "")
	second := ResolveEffectiveBranch(actor, "")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	// Çözümleme aktörü değiştirmemeli
	assert.Equal(t, uint(3), *actor.ActiveBranchID)
	assert.Equal(t, uint(1), *actor.HomeBranchID)

	// Dönen pointer aktörün alanlarına takma ad olmamalı
	*first = 99
	assert.Equal(t, uint(3), *actor.ActiveBranchID)
}

func TestResolveEffectiveBranch_NilActor(t *testing.T) {
	assert.Nil(t, ResolveEffectiveBranch(nil, "5"))
}
