package lead

import (
	"context"
	"log/slog"

	"github.com/marktline/billing-service/internal/domain"
	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
)

func (uc *DefaultLeadUsecase) MarkContacted(ctx context.Context, input *leaddto.TransitionInput) error {
	lead, err := uc.ownedLead(ctx, input)
	if err != nil {
		return err
	}

	moved, err := uc.LeadRepo.UpdateLeadStatusCAS(ctx, lead.ID, domain.LeadStatusPurchased, domain.LeadStatusContacted, uc.clock())
	if err != nil {
		return domain.NewPersistenceError("failed to mark lead contacted", err)
	}
	if !moved {
		return domain.NewStateConflictError("lead is not in purchased status")
	}
	return nil
}

// MarkConverted closes the lead and, when the listing is still active, flips
// it to sold at its list price and opens the commission.
func (uc *DefaultLeadUsecase) MarkConverted(ctx context.Context, input *leaddto.TransitionInput) error {
	lead, err := uc.ownedLead(ctx, input)
	if err != nil {
		return err
	}

	soldAt := uc.clock()
	moved, err := uc.LeadRepo.UpdateLeadStatusCAS(ctx, lead.ID, domain.LeadStatusContacted, domain.LeadStatusConverted, soldAt)
	if err != nil {
		return domain.NewPersistenceError("failed to mark lead converted", err)
	}
	if !moved {
		return domain.NewStateConflictError("lead is not in contacted status")
	}

	if uc.Metrics != nil {
		uc.Metrics.LeadsConvertedTotal.WithLabelValues().Inc()
	}

	// The listing may already be sold or withdrawn through another lead;
	// the conversion itself still stands.
	if _, err := uc.Sales.ConfirmSale(ctx, lead.ListingID, soldAt); err != nil {
		if domain.CodeOf(err) == domain.CodeStateConflict {
			slog.Info("listing no longer active, skipping commission", "listing_id", lead.ListingID, "lead_id", lead.ID)
			return nil
		}
		return err
	}
	return nil
}

func (uc *DefaultLeadUsecase) MarkNotInterested(ctx context.Context, input *leaddto.TransitionInput) error {
	lead, err := uc.ownedLead(ctx, input)
	if err != nil {
		return err
	}
	if lead.Status.Terminal() {
		return domain.NewStateConflictError("lead already terminal")
	}

	moved, err := uc.LeadRepo.UpdateLeadStatusCAS(ctx, lead.ID, lead.Status, domain.LeadStatusNotInterested, uc.clock())
	if err != nil {
		return domain.NewPersistenceError("failed to mark lead not interested", err)
	}
	if !moved {
		return domain.NewStateConflictError("lead status changed concurrently")
	}
	return nil
}

// InvalidateLead is the admin escape hatch for junk leads that were never
// sold.
func (uc *DefaultLeadUsecase) InvalidateLead(ctx context.Context, input *leaddto.TransitionInput) error {
	moved, err := uc.LeadRepo.UpdateLeadStatusCAS(ctx, input.LeadID, domain.LeadStatusAvailable, domain.LeadStatusInvalid, uc.clock())
	if err != nil {
		return domain.NewPersistenceError("failed to invalidate lead", err)
	}
	if !moved {
		return domain.NewStateConflictError("only available leads can be invalidated")
	}
	return nil
}

func (uc *DefaultLeadUsecase) ownedLead(ctx context.Context, input *leaddto.TransitionInput) (*domain.Lead, error) {
	lead, err := uc.LeadRepo.GetLeadByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if input.ActorID != lead.SellerID {
		return nil, domain.NewAuthorizationError("lead belongs to another seller")
	}
	return lead, nil
}
