package domain

import "time"

type LeadStatus string

const (
	LeadStatusAvailable     LeadStatus = "AVAILABLE"
	LeadStatusPurchased     LeadStatus = "PURCHASED"
	LeadStatusContacted     LeadStatus = "CONTACTED"
	LeadStatusConverted     LeadStatus = "CONVERTED"
	LeadStatusNotInterested LeadStatus = "NOT_INTERESTED"
	LeadStatusInvalid       LeadStatus = "INVALID"
)

// Terminal reports whether no further transition is allowed from s.
func (s LeadStatus) Terminal() bool {
	switch s {
	case LeadStatusConverted, LeadStatusNotInterested, LeadStatusInvalid:
		return true
	}
	return false
}

type VerificationTier string

const (
	VerificationNone     VerificationTier = "NONE"
	VerificationPhone    VerificationTier = "PHONE"
	VerificationID       VerificationTier = "ID"
	VerificationBusiness VerificationTier = "BUSINESS"
	VerificationBank     VerificationTier = "BANK"
	VerificationFull     VerificationTier = "FULL"
)

// BuyerProfile is the slice of a buyer account the pricing engine needs.
type BuyerProfile struct {
	VerificationTier VerificationTier
	TrustScore       float64
	RegisteredAt     time.Time
}

// Lead is a priced, quality-scored buyer contact sold to the listing owner.
// BuyerContact stays hidden until the lead is purchased. Price and
// QualityScore are fixed at creation.
type Lead struct {
	ID                 string
	ListingID          string
	SellerID           string
	BuyerContact       string
	ContactFingerprint string
	Message            string
	QualityScore       int
	Price              int64
	Status             LeadStatus
	Version            int64
	CreatedAt          time.Time
	PurchasedAt        *time.Time
	ContactedAt        *time.Time
	ConvertedAt        *time.Time
}

type LeadFilters struct {
	Statuses  []LeadStatus
	ListingID string
	DateFrom  time.Time
	DateTo    time.Time
}
