package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type CommissionModel struct {
	ID               string                  `gorm:"primaryKey;type:uuid"`
	ListingID        string                  `gorm:"type:uuid;index"`
	SellerID         string                  `gorm:"type:uuid;index"`
	SalePrice        int64                   `gorm:"not null"`
	CommissionRate   float64                 `gorm:"not null"`
	OriginalAmount   int64                   `gorm:"not null"`
	CommissionAmount int64                   `gorm:"not null"`
	Status           domain.CommissionStatus `gorm:"index:idx_status_due;not null"`
	InvoiceID        string
	InvoiceNumber    string
	DueDate          time.Time `gorm:"index:idx_status_due"`
	PaidDate         *time.Time
	LateFeeAmount    int64 `gorm:"not null;default:0"`
	LateFeeDays      int   `gorm:"not null;default:0"`
	LateFeeAt        *time.Time
	Version          int64 `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CommissionModel) TableName() string {
	return "commissions"
}
