package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mirror_shop/internal/models"
	"mirror_shop/internal/sampledata"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate all models
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seed(db); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	zap.L().Info("Database connected and migrated successfully")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.Customer{},
	)
}

// seed loads the sample catalogue into empty tables. Products and orders are
// inserted oldest first so that newest-first reads match the sample order.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := sampledata.Products()
	for i := len(products) - 1; i >= 0; i-- {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	orders := sampledata.Orders()
	for i := len(orders) - 1; i >= 0; i-- {
		if err := db.Create(&orders[i]).Error; err != nil {
			return err
		}
	}
	customers := sampledata.Customers()
	for i := range customers {
		if err := db.Create(&customers[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Reset drops the shop tables and recreates them with the sample catalogue.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.Product{}, &models.Order{}, &models.Customer{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	if err := autoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := seed(db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}
