package mappers

import (
	"time"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
)

func ToDomainCommission(model *models.CommissionModel) *domain.Commission {
	fee := domain.LateFee{
		FeeAmount:   model.LateFeeAmount,
		DaysOverdue: model.LateFeeDays,
	}
	if model.LateFeeAt != nil {
		fee.AssessedAt = *model.LateFeeAt
	}

	return &domain.Commission{
		ID:               model.ID,
		ListingID:        model.ListingID,
		SellerID:         model.SellerID,
		SalePrice:        model.SalePrice,
		CommissionRate:   model.CommissionRate,
		OriginalAmount:   model.OriginalAmount,
		CommissionAmount: model.CommissionAmount,
		Status:           model.Status,
		InvoiceID:        model.InvoiceID,
		InvoiceNumber:    model.InvoiceNumber,
		DueDate:          model.DueDate,
		PaidDate:         model.PaidDate,
		LateFee:          fee,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMCommission(commission *domain.Commission) *models.CommissionModel {
	var feeAt *time.Time
	if !commission.LateFee.AssessedAt.IsZero() {
		t := commission.LateFee.AssessedAt
		feeAt = &t
	}

	return &models.CommissionModel{
		ID:               commission.ID,
		ListingID:        commission.ListingID,
		SellerID:         commission.SellerID,
		SalePrice:        commission.SalePrice,
		CommissionRate:   commission.CommissionRate,
		OriginalAmount:   commission.OriginalAmount,
		CommissionAmount: commission.CommissionAmount,
		Status:           commission.Status,
		InvoiceID:        commission.InvoiceID,
		InvoiceNumber:    commission.InvoiceNumber,
		DueDate:          commission.DueDate,
		PaidDate:         commission.PaidDate,
		LateFeeAmount:    commission.LateFee.FeeAmount,
		LateFeeDays:      commission.LateFee.DaysOverdue,
		LateFeeAt:        feeAt,
		Version:          commission.Version,
		CreatedAt:        commission.CreatedAt,
		UpdatedAt:        commission.UpdatedAt,
	}
}
