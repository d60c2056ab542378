package main

import (
	"log"
	"strings"

	"rms-backend/internal/admin"
	"rms-backend/internal/audit"
	"rms-backend/internal/auth"
	"rms-backend/internal/config"
	"rms-backend/internal/database"
	"rms-backend/internal/feedback"
	"rms-backend/internal/inventory"
	"rms-backend/internal/models"
	"rms-backend/internal/notify"
	"rms-backend/internal/orders"
	"rms-backend/internal/reservation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	if err := notify.Init(cfg.RabbitMQURL); err != nil {
		log.Fatalf("RabbitMQ bağlantısı kurulamadı: %v", err)
	}
	defer notify.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/register", auth.RegisterCustomerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/active-branch", auth.SetActiveBranchHandler())

	// Owner admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleOwnerAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())
	adminRoutes.Get("/branches/:id/summary", admin.BranchSummaryHandler())

	// Personel yönetimi (owner_admin + branch_manager, handler içinde yetkilenir)
	protected.Post("/staff", admin.CreateStaffHandler())
	protected.Get("/staff", admin.ListStaffHandler())
	protected.Put("/staff/:id", admin.UpdateStaffHandler())
	protected.Delete("/staff/:id", admin.DeleteStaffHandler())

	// Siparişler
	protected.Post("/orders", orders.CreateOrderHandler())
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Put("/orders/:id/status", orders.UpdateOrderStatusHandler())

	// Envanter
	protected.Post("/inventory", inventory.CreateItemHandler())
	protected.Get("/inventory", inventory.ListItemsHandler())
	protected.Put("/inventory/:id", inventory.UpdateItemHandler())
	protected.Post("/inventory/:id/adjust", inventory.AdjustItemHandler())
	protected.Delete("/inventory/:id", inventory.DeleteItemHandler())

	// Rezervasyonlar
	protected.Post("/reservations", reservation.CreateReservationHandler())
	protected.Get("/reservations", reservation.ListReservationsHandler())
	protected.Get("/reservations/:id", reservation.GetReservationHandler())
	protected.Put("/reservations/:id/status", reservation.UpdateReservationStatusHandler())

	// Geri bildirimler
	protected.Post("/feedback", feedback.CreateFeedbackHandler())
	protected.Get("/feedback", feedback.ListFeedbackHandler())
	protected.Put("/feedback/:id/reply", feedback.ReplyFeedbackHandler())
	protected.Put("/feedback/:id/approve", feedback.ApproveFeedbackHandler())
	protected.Delete("/feedback/:id", feedback.DeleteFeedbackHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
