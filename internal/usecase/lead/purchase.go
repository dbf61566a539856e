package lead

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
)

// PurchaseLead is the synchronous hot path. The AVAILABLE -> PURCHASED swap
// is a single compare-and-swap, so concurrent attempts on one lead produce
// exactly one winner; the losers get a state-conflict error. Payment runs
// after the claim and releases it on failure.
func (uc *DefaultLeadUsecase) PurchaseLead(ctx context.Context, input *leaddto.PurchaseLeadInput) (*leaddto.LeadOutput, error) {
	lead, err := uc.LeadRepo.GetLeadByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	if input.PurchaserID != lead.SellerID {
		return nil, domain.NewAuthorizationError("lead belongs to another seller")
	}
	if lead.Status != domain.LeadStatusAvailable {
		return nil, domain.NewStateConflictError(domain.ErrLeadNotAvailable.Error())
	}

	purchasedAt := uc.clock()
	claimed, err := uc.LeadRepo.ClaimLead(ctx, lead.ID, purchasedAt)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to claim lead", err)
	}
	if !claimed {
		return nil, domain.NewStateConflictError(domain.ErrLeadNotAvailable.Error())
	}

	paymentMethod, err := uc.collectPayment(ctx, lead)
	if err != nil {
		if releaseErr := uc.LeadRepo.ReleaseLead(ctx, lead.ID); releaseErr != nil {
			slog.Error("failed to release lead after payment failure",
				"lead_id", lead.ID, "error", releaseErr.Error())
		}
		return nil, err
	}

	lead.Status = domain.LeadStatusPurchased
	lead.PurchasedAt = &purchasedAt

	if uc.Metrics != nil {
		uc.Metrics.LeadsPurchasedTotal.WithLabelValues(paymentMethod).Inc()
		uc.Metrics.LeadPurchaseAmount.WithLabelValues(paymentMethod).Add(float64(lead.Price))
	}

	uc.publish(kafka.BillingEvent{
		EventType: kafka.EventLeadPurchased,
		SellerID:  lead.SellerID,
		EntityID:  lead.ID,
		Amount:    lead.Price,
		Status:    string(domain.LeadStatusPurchased),
	})

	return leaddto.ToOutput(lead, input.PurchaserID), nil
}

// collectPayment spends lead credits when the balance covers the price and
// falls back to a gateway charge otherwise.
func (uc *DefaultLeadUsecase) collectPayment(ctx context.Context, lead *domain.Lead) (string, error) {
	debited, err := uc.SellerRepo.DebitLeadCredits(ctx, lead.SellerID, lead.Price)
	if err != nil {
		return "", domain.NewPersistenceError("failed to debit lead credits", err)
	}
	if debited {
		return "credits", nil
	}

	account, err := uc.SellerRepo.GetSellerAccount(ctx, lead.SellerID)
	if err != nil {
		return "", err
	}
	if account.GatewayCustomerRef == "" {
		return "", domain.NewStateConflictError(domain.ErrInsufficientCredits.Error())
	}

	chargeRef, err := uc.Gateway.ChargeCustomer(ctx, account.GatewayCustomerRef, lead.Price,
		fmt.Sprintf("lead purchase %s", lead.ID))

	payment := &domain.Payment{
		ID:               uuid.NewString(),
		SellerID:         lead.SellerID,
		GatewayIntentRef: chargeRef,
		Amount:           lead.Price,
		Purpose:          domain.PurposeLeadPurchase,
		Status:           domain.PaymentSucceeded,
		CreatedAt:        uc.clock(),
	}
	if err != nil {
		now := uc.clock()
		payment.Status = domain.PaymentFailed
		payment.FailedAt = &now
	}
	if createErr := uc.PaymentRepo.CreatePayment(ctx, payment); createErr != nil {
		slog.Error("failed to record lead purchase payment", "lead_id", lead.ID, "error", createErr.Error())
	}

	if err != nil {
		return "", domain.NewGatewayError("lead purchase charge failed", err)
	}
	return "gateway", nil
}
