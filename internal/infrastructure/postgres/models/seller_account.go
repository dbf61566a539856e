package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type SellerAccountModel struct {
	SellerID            string          `gorm:"primaryKey;type:uuid"`
	PlanTier            domain.PlanTier `gorm:"not null;default:'BASIC'"`
	TotalCommissionOwed int64           `gorm:"not null;default:0"`
	TotalCommissionPaid int64           `gorm:"not null;default:0"`
	LeadCredits         int64           `gorm:"not null;default:0"`
	AutoTopup           bool            `gorm:"not null;default:false"`
	MonthlyTopupSpent   int64           `gorm:"not null;default:0"`
	BankVerified        bool            `gorm:"not null;default:false"`
	GatewayCustomerRef  string
	GatewayAccountRef   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (SellerAccountModel) TableName() string {
	return "seller_accounts"
}
