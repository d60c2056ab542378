package inventory_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"rms-backend/internal/auth"
	"rms-backend/internal/config"
	"rms-backend/internal/database"
	"rms-backend/internal/inventory"
	"rms-backend/internal/models"
)

var testCfg = &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}

var dbCounter atomic.Int64

func setup(t *testing.T) (*fiber.App, models.Branch, models.Branch) {
	t.Helper()

	dsn := fmt.Sprintf("file:invtest%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	protected := app.Group("/api", auth.JWTMiddleware(testCfg))
	protected.Post("/inventory", inventory.CreateItemHandler())
	protected.Get("/inventory", inventory.ListItemsHandler())
	protected.Put("/inventory/:id", inventory.UpdateItemHandler())
	protected.Post("/inventory/:id/adjust", inventory.AdjustItemHandler())
	protected.Delete("/inventory/:id", inventory.DeleteItemHandler())

	branch2 := models.Branch{Name: "Merkez"}
	branch5 := models.Branch{Name: "Kadıköy"}
	require.NoError(t, db.Create(&branch2).Error)
	require.NoError(t, db.Create(&branch5).Error)
	return app, branch2, branch5
}

func newUser(t *testing.T, role models.UserRole, branchID *uint, email string) *models.User {
	t.Helper()
	user := &models.User{
		BranchID: branchID, Name: "Test " + string(role), Email: email,
		PasswordHash: "x", Role: role,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func do(t *testing.T, app *fiber.App, method, url string, body any, user *models.User) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := auth.GenerateToken(testCfg.JWTSecret, user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdjustItem(t *testing.T) {
	app, branch2, branch5 := setup(t)
	manager2 := newUser(t, models.RoleBranchManager, &branch2.ID, "mgr2@rms.local")

	item := models.InventoryItem{BranchID: branch2.ID, Name: "Un", Unit: "kg", Quantity: 20}
	require.NoError(t, database.DB.Create(&item).Error)

	t.Run("decrement", func(t *testing.T) {
		resp := do(t, app, "POST", fmt.Sprintf("/api/inventory/%d/adjust", item.ID),
			fiber.Map{"delta": -5, "reason": "günlük kullanım"}, manager2)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var saved models.InventoryItem
		require.NoError(t, database.DB.First(&saved, item.ID).Error)
		assert.Equal(t, float64(15), saved.Quantity)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		resp := do(t, app, "POST", fmt.Sprintf("/api/inventory/%d/adjust", item.ID),
			fiber.Map{"delta": -100, "reason": "sayım"}, manager2)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("cross branch denied", func(t *testing.T) {
		other := models.InventoryItem{BranchID: branch5.ID, Name: "Şeker", Unit: "kg", Quantity: 10}
		require.NoError(t, database.DB.Create(&other).Error)

		resp := do(t, app, "POST", fmt.Sprintf("/api/inventory/%d/adjust", other.ID),
			fiber.Map{"delta": -1, "reason": "test"}, manager2)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestListItems_LowStockFilter(t *testing.T) {
	app, branch2, _ := setup(t)
	manager2 := newUser(t, models.RoleBranchManager, &branch2.ID, "mgr2@rms.local")

	require.NoError(t, database.DB.Create(&models.InventoryItem{
		BranchID: branch2.ID, Name: "Un", Unit: "kg", Quantity: 2, LowStockThreshold: 5,
	}).Error)
	require.NoError(t, database.DB.Create(&models.InventoryItem{
		BranchID: branch2.ID, Name: "Tuz", Unit: "kg", Quantity: 50, LowStockThreshold: 5,
	}).Error)

	resp := do(t, app, "GET", "/api/inventory?low_stock=1", nil, manager2)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Un", list[0]["name"])
	assert.Equal(t, true, list[0]["low_stock"])
}

func TestInventoryRoles(t *testing.T) {
	app, branch2, _ := setup(t)
	front2 := newUser(t, models.RoleFrontStaff, &branch2.ID, "front2@rms.local")
	kitchen2 := newUser(t, models.RoleKitchenStaff, &branch2.ID, "kitchen2@rms.local")

	// Envanter sadece owner_admin ve branch_manager için
	resp := do(t, app, "GET", "/api/inventory", nil, front2)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = do(t, app, "GET", "/api/inventory", nil, kitchen2)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
