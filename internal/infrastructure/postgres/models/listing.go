package models

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

// ListingModel mirrors the subset of the listings table the billing engine
// reads and flips. The listing CRUD surface owns the rest of the columns.
type ListingModel struct {
	ID        string               `gorm:"primaryKey;type:uuid"`
	SellerID  string               `gorm:"type:uuid;index"`
	Price     int64                `gorm:"not null"`
	Status    domain.ListingStatus `gorm:"index;not null"`
	SoldPrice int64                `gorm:"not null;default:0"`
	SoldAt    *time.Time
	CreatedAt time.Time
}

func (ListingModel) TableName() string {
	return "listings"
}
