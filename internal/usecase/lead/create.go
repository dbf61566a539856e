package lead

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/marktline/billing-service/internal/domain"
	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
	"github.com/marktline/billing-service/internal/usecase/pricing"
)

func (uc *DefaultLeadUsecase) CreateLead(ctx context.Context, input *leaddto.CreateLeadInput) (*leaddto.LeadOutput, error) {
	if input.ListingID == "" {
		return nil, domain.NewValidationError("listing_id is required")
	}
	if strings.TrimSpace(input.ContactIdentity) == "" {
		return nil, domain.NewValidationError("contact identity is required")
	}

	listing, err := uc.ListingRepo.GetListingByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingActive {
		return nil, domain.NewStateConflictError("listing is not active")
	}

	fingerprint := contactFingerprint(input.ContactIdentity)
	exists, err := uc.LeadRepo.LeadExistsForContact(ctx, listing.ID, fingerprint)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to check for duplicate lead", err)
	}
	if exists {
		return nil, domain.NewStateConflictError(domain.ErrDuplicateLead.Error())
	}

	now := uc.clock()
	lead := &domain.Lead{
		ID:                 uuid.NewString(),
		ListingID:          listing.ID,
		SellerID:           listing.SellerID,
		BuyerContact:       input.BuyerContact,
		ContactFingerprint: fingerprint,
		Message:            input.Message,
		QualityScore:       pricing.QualityScore(input.Buyer, input.Message, now),
		Price:              pricing.LeadPrice(listing.Price, input.Buyer.VerificationTier),
		Status:             domain.LeadStatusAvailable,
		CreatedAt:          now,
	}

	if err := uc.LeadRepo.CreateLead(ctx, lead); err != nil {
		if errors.Is(err, domain.ErrDuplicateLead) {
			return nil, domain.NewStateConflictError(domain.ErrDuplicateLead.Error())
		}
		return nil, domain.NewPersistenceError("failed to create lead", err)
	}

	if uc.Metrics != nil {
		uc.Metrics.LeadsCreatedTotal.WithLabelValues(string(input.Buyer.VerificationTier)).Inc()
	}

	return leaddto.ToOutput(lead, ""), nil
}

// contactFingerprint collapses a buyer identity into the dedupe key used by
// the unique (listing, contact) constraint.
func contactFingerprint(identity string) string {
	normalized := strings.ToLower(strings.TrimSpace(identity))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
