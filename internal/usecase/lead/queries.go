package lead

import (
	"context"

	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
)

func (uc *DefaultLeadUsecase) GetLeadByID(ctx context.Context, leadID, callerID string) (*leaddto.LeadOutput, error) {
	lead, err := uc.LeadRepo.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return leaddto.ToOutput(lead, callerID), nil
}

func (uc *DefaultLeadUsecase) GetLeadsBySellerID(ctx context.Context, input *leaddto.ListLeadsInput) ([]*leaddto.LeadOutput, int64, error) {
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	leads, total, err := uc.LeadRepo.GetLeadsBySellerID(ctx, input.SellerID, input.Page, limit, input.Filters)
	if err != nil {
		return nil, 0, err
	}

	outputs := make([]*leaddto.LeadOutput, len(leads))
	for i, l := range leads {
		outputs[i] = leaddto.ToOutput(l, input.SellerID)
	}
	return outputs, total, nil
}
