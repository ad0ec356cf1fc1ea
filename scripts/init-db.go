package main

import (
	"fmt"
	"log"

	"mirror_shop/internal/config"
	"mirror_shop/internal/database"
	"mirror_shop/internal/models"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Recreating tables and loading sample data...")
	if err := database.Reset(db); err != nil {
		log.Fatal("Failed to reset database:", err)
	}

	var products, orders, customers int64
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.Customer{}).Count(&customers)
	fmt.Printf("Database ready: %d products, %d orders, %d customers\n", products, orders, customers)
}
