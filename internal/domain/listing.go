package domain

import (
	"context"
	"time"
)

type ListingStatus string

const (
	ListingActive   ListingStatus = "ACTIVE"
	ListingSold     ListingStatus = "SOLD"
	ListingInactive ListingStatus = "INACTIVE"
)

// Listing is a collaborator row: the engine only reads it and flips it to
// SOLD on lead conversion. Everything else about listings lives elsewhere.
type Listing struct {
	ID        string
	SellerID  string
	Price     int64
	Status    ListingStatus
	SoldPrice int64
	SoldAt    *time.Time
	CreatedAt time.Time
}

type ListingRepository interface {
	GetListingByID(ctx context.Context, listingID string) (*Listing, error)
}
