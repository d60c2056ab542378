package database

import (
	"log"

	"rms-backend/internal/config"
	"rms-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: tüm modelleri migrate eder. Testler bunu sqlite üzerinde kullanır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryItem{},
		&models.Reservation{},
		&models.Feedback{},
		&models.AuditLog{},
	)
}
