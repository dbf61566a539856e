package leaddto

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

type CreateLeadInput struct {
	ListingID       string
	ContactIdentity string
	BuyerContact    string
	Message         string
	Buyer           domain.BuyerProfile
}

type PurchaseLeadInput struct {
	LeadID      string
	PurchaserID string
}

type ListLeadsInput struct {
	SellerID string
	Page     int64
	Limit    int64
	Filters  domain.LeadFilters
}

type TransitionInput struct {
	LeadID  string
	ActorID string
	At      time.Time
}
