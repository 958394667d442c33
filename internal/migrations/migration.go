package migrations

import (
	"log/slog"

	"gorm.io/gorm"

	"eventmaster/internal/models"
)

// RunMigrations creates or updates the orders table.
func RunMigrations(db *gorm.DB, log *slog.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(&models.OrderRecord{}); err != nil {
		return err
	}

	log.Info("database migrations completed")
	return nil
}

// ResetSchema drops and recreates the orders table. All orders are lost.
func ResetSchema(db *gorm.DB, log *slog.Logger) error {
	log.Warn("dropping orders table")
	if err := db.Migrator().DropTable(&models.OrderRecord{}); err != nil {
		log.Warn("error dropping tables", "error", err)
	}
	return RunMigrations(db, log)
}
