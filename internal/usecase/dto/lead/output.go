package leaddto

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

// LeadOutput is the external view of a lead. BuyerContact is populated only
// for the owning seller after purchase.
type LeadOutput struct {
	ID           string            `json:"id"`
	ListingID    string            `json:"listing_id"`
	SellerID     string            `json:"seller_id"`
	BuyerContact string            `json:"buyer_contact,omitempty"`
	Message      string            `json:"message,omitempty"`
	QualityScore int               `json:"quality_score"`
	Price        int64             `json:"price"`
	Status       domain.LeadStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	PurchasedAt  *time.Time        `json:"purchased_at,omitempty"`
	ContactedAt  *time.Time        `json:"contacted_at,omitempty"`
	ConvertedAt  *time.Time        `json:"converted_at,omitempty"`
}

// ToOutput builds the external view, revealing the contact only when the
// caller bought the lead.
func ToOutput(lead *domain.Lead, callerID string) *LeadOutput {
	out := &LeadOutput{
		ID:           lead.ID,
		ListingID:    lead.ListingID,
		SellerID:     lead.SellerID,
		Message:      lead.Message,
		QualityScore: lead.QualityScore,
		Price:        lead.Price,
		Status:       lead.Status,
		CreatedAt:    lead.CreatedAt,
		PurchasedAt:  lead.PurchasedAt,
		ContactedAt:  lead.ContactedAt,
		ConvertedAt:  lead.ConvertedAt,
	}
	if lead.Status != domain.LeadStatusAvailable && callerID == lead.SellerID {
		out.BuyerContact = lead.BuyerContact
	}
	return out
}
