package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type SubscriptionModel struct {
	ID               string                    `gorm:"primaryKey;type:uuid"`
	SellerID         string                    `gorm:"type:uuid;index"`
	GatewaySubRef    string                    `gorm:"index"`
	PlanTier         domain.PlanTier           `gorm:"not null"`
	Status           domain.SubscriptionStatus `gorm:"index;not null"`
	CurrentPeriodEnd time.Time                 `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
