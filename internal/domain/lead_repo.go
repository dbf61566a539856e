package domain

import (
	"context"
	"time"
)

type LeadRepository interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLeadByID(ctx context.Context, leadID string) (*Lead, error)
	LeadExistsForContact(ctx context.Context, listingID, fingerprint string) (bool, error)

	// ClaimLead performs the atomic AVAILABLE -> PURCHASED swap. It returns
	// false when another purchaser already won the lead.
	ClaimLead(ctx context.Context, leadID string, purchasedAt time.Time) (bool, error)

	// ReleaseLead undoes a claim whose payment failed, restoring AVAILABLE
	// and clearing the purchase timestamp.
	ReleaseLead(ctx context.Context, leadID string) error

	// UpdateLeadStatusCAS moves a lead from one status to another, stamping
	// the transition timestamp that belongs to newStatus. Returns false when
	// the lead was not in oldStatus anymore.
	UpdateLeadStatusCAS(ctx context.Context, leadID string, oldStatus, newStatus LeadStatus, at time.Time) (bool, error)

	GetLeadsBySellerID(ctx context.Context, sellerID string, page, limit int64, filters LeadFilters) ([]*Lead, int64, error)
}
