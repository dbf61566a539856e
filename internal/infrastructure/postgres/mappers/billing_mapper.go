package mappers

import (
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
)

func ToDomainSubscription(model *models.SubscriptionModel) *domain.Subscription {
	return &domain.Subscription{
		ID:               model.ID,
		SellerID:         model.SellerID,
		GatewaySubRef:    model.GatewaySubRef,
		PlanTier:         model.PlanTier,
		Status:           model.Status,
		CurrentPeriodEnd: model.CurrentPeriodEnd,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:               model.ID,
		SellerID:         model.SellerID,
		GatewayIntentRef: model.GatewayIntentRef,
		Amount:           model.Amount,
		Purpose:          model.Purpose,
		Status:           model.Status,
		FailedAt:         model.FailedAt,
		NotifiedAt:       model.NotifiedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               payment.ID,
		SellerID:         payment.SellerID,
		GatewayIntentRef: payment.GatewayIntentRef,
		Amount:           payment.Amount,
		Purpose:          payment.Purpose,
		Status:           payment.Status,
		FailedAt:         payment.FailedAt,
		NotifiedAt:       payment.NotifiedAt,
		CreatedAt:        payment.CreatedAt,
		UpdatedAt:        payment.UpdatedAt,
	}
}

func ToDomainListing(model *models.ListingModel) *domain.Listing {
	return &domain.Listing{
		ID:        model.ID,
		SellerID:  model.SellerID,
		Price:     model.Price,
		Status:    model.Status,
		SoldPrice: model.SoldPrice,
		SoldAt:    model.SoldAt,
		CreatedAt: model.CreatedAt,
	}
}
