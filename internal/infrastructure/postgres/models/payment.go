package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type PaymentModel struct {
	ID               string                `gorm:"primaryKey;type:uuid"`
	SellerID         string                `gorm:"type:uuid;index"`
	GatewayIntentRef string                `gorm:"index"`
	Amount           int64                 `gorm:"not null"`
	Purpose          domain.PaymentPurpose `gorm:"not null"`
	Status           domain.PaymentStatus  `gorm:"index;not null"`
	FailedAt         *time.Time
	NotifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
