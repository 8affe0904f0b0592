package db

import (
	"receipt_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Open connects to MySQL. Driver errors are translated so unique violations
// surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,                                // Map driver error codes to gorm errors
		Logger:         logger.Default.LogMode(logger.Warn), // Only slow queries and errors
	})
}

// Migrate creates or updates the users and receipts tables
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes.
	// receipts.owner_id has no foreign key, receipts stay after their owner is deleted.
	if err := db.AutoMigrate(&domain.User{}, &domain.Receipt{}); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
