package reservation_test

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
	"rms-backend/internal/models"
	"rms-backend/internal/reservation"
)

var testCfg = &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}

var dbCounter atomic.Int64

func setup(t *testing.T) (*fiber.App, models.Branch, models.Branch) {
	t.Helper()

	dsn := fmt.Sprintf("file:restest%d?mode=memory&cache=shared", dbCounter.Add(1))
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
	protected.Post("/reservations", reservation.CreateReservationHandler())
	protected.Get("/reservations", reservation.ListReservationsHandler())
	protected.Get("/reservations/:id", reservation.GetReservationHandler())
	protected.Put("/reservations/:id/status", reservation.UpdateReservationStatusHandler())

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

func TestCreateReservation(t *testing.T) {
	app, branch2, _ := setup(t)
	customer := newUser(t, models.RoleCustomer, &branch2.ID, "cust@rms.local")

	resp := do(t, app, "POST", "/api/reservations", fiber.Map{
		"name": "Ayşe", "party_size": 4, "reserved_at": "2026-09-01 19:30",
	}, customer)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, float64(branch2.ID), created["branch_id"])
	assert.Equal(t, "pending", created["status"])
	assert.NotEmpty(t, created["code"])

	t.Run("bad date format", func(t *testing.T) {
		resp := do(t, app, "POST", "/api/reservations", fiber.Map{
			"name": "Ali", "party_size": 2, "reserved_at": "yarın akşam",
		}, customer)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestReservationStatusFlow(t *testing.T) {
	app, branch2, branch5 := setup(t)
	front2 := newUser(t, models.RoleFrontStaff, &branch2.ID, "front2@rms.local")

	res := models.Reservation{
		BranchID: branch2.ID, Code: "test-code-1", Name: "Ayşe",
		PartySize: 4, Status: models.ReservationStatusPending,
	}
	require.NoError(t, database.DB.Create(&res).Error)

	t.Run("confirm then seat", func(t *testing.T) {
		resp := do(t, app, "PUT", fmt.Sprintf("/api/reservations/%d/status", res.ID),
			fiber.Map{"status": "confirmed"}, front2)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = do(t, app, "PUT", fmt.Sprintf("/api/reservations/%d/status", res.ID),
			fiber.Map{"status": "seated"}, front2)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("seated is terminal", func(t *testing.T) {
		resp := do(t, app, "PUT", fmt.Sprintf("/api/reservations/%d/status", res.ID),
			fiber.Map{"status": "cancelled"}, front2)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cross branch denied", func(t *testing.T) {
		other := models.Reservation{
			BranchID: branch5.ID, Code: "test-code-2", Name: "Ali",
			PartySize: 2, Status: models.ReservationStatusPending,
		}
		require.NoError(t, database.DB.Create(&other).Error)

		resp := do(t, app, "PUT", fmt.Sprintf("/api/reservations/%d/status", other.ID),
			fiber.Map{"status": "confirmed"}, front2)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("no_show only after confirmation", func(t *testing.T) {
		pending := models.Reservation{
			BranchID: branch2.ID, Code: "test-code-3", Name: "Veli",
			PartySize: 3, Status: models.ReservationStatusPending,
		}
		require.NoError(t, database.DB.Create(&pending).Error)

		resp := do(t, app, "PUT", fmt.Sprintf("/api/reservations/%d/status", pending.ID),
			fiber.Map{"status": "no_show"}, front2)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestCustomerSeesOnlyOwnReservations(t *testing.T) {
	app, branch2, _ := setup(t)
	customer := newUser(t, models.RoleCustomer, &branch2.ID, "cust@rms.local")

	own := models.Reservation{
		BranchID: branch2.ID, CustomerID: &customer.ID, Code: "own-code",
		Name: "Kendi", PartySize: 2, Status: models.ReservationStatusPending,
	}
	other := models.Reservation{
		BranchID: branch2.ID, Code: "other-code",
		Name: "Başka", PartySize: 2, Status: models.ReservationStatusPending,
	}
	require.NoError(t, database.DB.Create(&own).Error)
	require.NoError(t, database.DB.Create(&other).Error)

	resp := do(t, app, "GET", "/api/reservations", nil, customer)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, float64(own.ID), list[0]["id"])
}
