package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"launchcontrol/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	// Auto migrate all models
	err = DB.AutoMigrate(
		&models.LedgerState{},
		&models.PhaseLedger{},
		&models.PaymentAsset{},
		&models.BuyerTotal{},
		&models.ReferralBinding{},
		&models.ReferrerStat{},
		&models.ReferrerEarning{},
		&models.StakePool{},
		&models.StakePosition{},
		&models.StakerTotal{},
		&models.AccountBalance{},
		&models.TransferRecord{},
		&models.LedgerEvent{},
		&models.PoolStatRecord{},
		&models.SaleStatRecord{},
		&models.EventCount{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}
