package mappers

import (
	"encoding/json"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
)

func ToDomainSellerAccount(model *models.SellerAccountModel) *domain.SellerAccount {
	return &domain.SellerAccount{
		SellerID:            model.SellerID,
		PlanTier:            model.PlanTier,
		TotalCommissionOwed: model.TotalCommissionOwed,
		TotalCommissionPaid: model.TotalCommissionPaid,
		LeadCredits:         model.LeadCredits,
		AutoTopup:           model.AutoTopup,
		MonthlyTopupSpent:   model.MonthlyTopupSpent,
		BankVerified:        model.BankVerified,
		GatewayCustomerRef:  model.GatewayCustomerRef,
		GatewayAccountRef:   model.GatewayAccountRef,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func ToGORMSellerAccount(account *domain.SellerAccount) *models.SellerAccountModel {
	return &models.SellerAccountModel{
		SellerID:            account.SellerID,
		PlanTier:            account.PlanTier,
		TotalCommissionOwed: account.TotalCommissionOwed,
		TotalCommissionPaid: account.TotalCommissionPaid,
		LeadCredits:         account.LeadCredits,
		AutoTopup:           account.AutoTopup,
		MonthlyTopupSpent:   account.MonthlyTopupSpent,
		BankVerified:        account.BankVerified,
		GatewayCustomerRef:  account.GatewayCustomerRef,
		GatewayAccountRef:   account.GatewayAccountRef,
		CreatedAt:           account.CreatedAt,
		UpdatedAt:           account.UpdatedAt,
	}
}

func ToDomainPayoutBatch(model *models.PayoutBatchModel) *domain.PayoutBatch {
	var ids []string
	_ = json.Unmarshal([]byte(model.CommissionIDs), &ids)

	return &domain.PayoutBatch{
		ID:            model.ID,
		BatchNumber:   model.BatchNumber,
		SellerID:      model.SellerID,
		CommissionIDs: ids,
		TotalAmount:   model.TotalAmount,
		Outcome:       model.Outcome,
		FailureReason: model.FailureReason,
		TransferID:    model.TransferID,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMPayoutBatch(batch *domain.PayoutBatch) *models.PayoutBatchModel {
	ids, _ := json.Marshal(batch.CommissionIDs)

	return &models.PayoutBatchModel{
		ID:            batch.ID,
		BatchNumber:   batch.BatchNumber,
		SellerID:      batch.SellerID,
		CommissionIDs: string(ids),
		TotalAmount:   batch.TotalAmount,
		Outcome:       batch.Outcome,
		FailureReason: batch.FailureReason,
		TransferID:    batch.TransferID,
		CreatedAt:     batch.CreatedAt,
	}
}
