package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type PayoutBatchModel struct {
	ID            string               `gorm:"primaryKey;type:uuid"`
	BatchNumber   string               `gorm:"uniqueIndex"`
	SellerID      string               `gorm:"type:uuid;index"`
	CommissionIDs string               `gorm:"type:jsonb"`
	TotalAmount   int64                `gorm:"not null"`
	Outcome       domain.PayoutOutcome `gorm:"index;not null"`
	FailureReason string
	TransferID    string
	CreatedAt     time.Time `gorm:"index"`
}

func (PayoutBatchModel) TableName() string {
	return "payout_batches"
}
