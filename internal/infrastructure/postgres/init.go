package postgres

import (
	"log"

	"github.com/marktline/billing-service/internal/config"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.BillingConfig) *gorm.DB {
	dsn := cfg.BillingDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ListingModel{},
		&models.SellerAccountModel{},
		&models.LeadModel{},
		&models.CommissionModel{},
		&models.PayoutBatchModel{},
		&models.SubscriptionModel{},
		&models.PaymentModel{},
	)

	return db
}
