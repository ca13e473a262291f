package database

import (
	"fmt"
	"lms/models"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTestDb opens an in-memory sqlite database, migrates the full
// schema and installs it as the global instance for the duration of a
// test. Each call gets a fresh database.
func ConnectTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	// Named memory database so every pooled connection sees the same
	// schema, while separate tests stay isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Course{},
		&models.Stage{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Bundle{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Entitlement{},
		&models.Enrollment{},
		&models.StageProgress{},
		&models.QuizAttempt{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := Database
	Database = DbInstance{Db: db}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		Database = prev
	})

	return db
}
