package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type LeadModel struct {
	ID                 string            `gorm:"primaryKey;type:uuid"`
	ListingID          string            `gorm:"type:uuid;index:idx_listing_contact,unique"`
	SellerID           string            `gorm:"type:uuid;index"`
	BuyerContact       string            `gorm:"type:jsonb"`
	ContactFingerprint string            `gorm:"index:idx_listing_contact,unique"`
	Message            string            `gorm:"type:text"`
	QualityScore       int               `gorm:"not null"`
	Price              int64             `gorm:"not null"`
	Status             domain.LeadStatus `gorm:"index;not null"`
	Version            int64             `gorm:"not null;default:0"`
	CreatedAt          time.Time         `gorm:"index"`
	UpdatedAt          time.Time
	PurchasedAt        *time.Time `gorm:"default:null"`
	ContactedAt        *time.Time `gorm:"default:null"`
	ConvertedAt        *time.Time `gorm:"default:null"`
}

func (LeadModel) TableName() string {
	return "leads"
}
