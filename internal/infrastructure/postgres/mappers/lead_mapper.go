package mappers

import (
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
)

func ToDomainLead(model *models.LeadModel) *domain.Lead {
	return &domain.Lead{
		ID:                 model.ID,
		ListingID:          model.ListingID,
		SellerID:           model.SellerID,
		BuyerContact:       model.BuyerContact,
		ContactFingerprint: model.ContactFingerprint,
		Message:            model.Message,
		QualityScore:       model.QualityScore,
		Price:              model.Price,
		Status:             model.Status,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		PurchasedAt:        model.PurchasedAt,
		ContactedAt:        model.ContactedAt,
		ConvertedAt:        model.ConvertedAt,
	}
}

func ToGORMLead(lead *domain.Lead) *models.LeadModel {
	return &models.LeadModel{
		ID:                 lead.ID,
		ListingID:          lead.ListingID,
		SellerID:           lead.SellerID,
		BuyerContact:       lead.BuyerContact,
		ContactFingerprint: lead.ContactFingerprint,
		Message:            lead.Message,
		QualityScore:       lead.QualityScore,
		Price:              lead.Price,
		Status:             lead.Status,
		Version:            lead.Version,
		CreatedAt:          lead.CreatedAt,
		PurchasedAt:        lead.PurchasedAt,
		ContactedAt:        lead.ContactedAt,
		ConvertedAt:        lead.ConvertedAt,
	}
}
