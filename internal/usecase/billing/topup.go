package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
)

// runLeadCreditTopup recharges auto-topup sellers whose credit balance fell
// below the floor, charging their stored payment method. The monthly spend
// cap shrinks or skips the charge; the payment record is written on both
// outcomes so recovery can pick up declines.
func (uc *DefaultBillingUsecase) runLeadCreditTopup(ctx context.Context, _ bool) *TaskReport {
	report := &TaskReport{Details: []ItemDetail{}}

	candidates, err := uc.SellerRepo.FindTopupCandidates(ctx, uc.Cfg.CreditTopupFloor)
	if err != nil {
		slog.Error("failed to find topup candidates", "error", err.Error())
		report.TotalErrors++
		return report
	}
	report.TotalFound = len(candidates)

	details := runPool(ctx, uc.Cfg.TaskWorkers, candidates, uc.topupSeller)
	tally(report, details)
	return report
}

func (uc *DefaultBillingUsecase) topupSeller(ctx context.Context, account *domain.SellerAccount) ItemDetail {
	detail := ItemDetail{
		ItemID:   account.SellerID,
		SellerID: account.SellerID,
		Action:   "topup",
	}

	amount := uc.Cfg.CreditTopupAmount
	if remaining := uc.Cfg.MaxMonthlyTopup - account.MonthlyTopupSpent; remaining < amount {
		amount = remaining
	}
	if amount <= 0 {
		detail.Action = "monthly_cap_reached"
		detail.Success = true
		return detail
	}

	var intentRef string
	chargeErr := retryGateway(ctx, uc.Cfg.GatewayRetryAttempts, func() error {
		var gwErr error
		intentRef, gwErr = uc.Gateway.ChargeCustomer(ctx, account.GatewayCustomerRef, amount,
			fmt.Sprintf("lead credit topup for seller %s", account.SellerID))
		return gwErr
	})

	payment := &domain.Payment{
		ID:               uuid.New().String(),
		SellerID:         account.SellerID,
		GatewayIntentRef: intentRef,
		Amount:           amount,
		Purpose:          domain.PurposeCreditTopup,
		Status:           domain.PaymentSucceeded,
		CreatedAt:        uc.now(),
	}
	if chargeErr != nil {
		now := uc.now()
		payment.Status = domain.PaymentFailed
		payment.FailedAt = &now
	}
	if err := uc.PaymentRepo.CreatePayment(ctx, payment); err != nil {
		slog.Error("failed to record topup payment", "seller_id", account.SellerID, "error", err.Error())
	}

	if chargeErr != nil {
		detail.Error = chargeErr.Error()
		return detail
	}

	if err := uc.SellerRepo.AddLeadCredits(ctx, account.SellerID, amount); err != nil {
		detail.Error = err.Error()
		return detail
	}
	if err := uc.SellerRepo.AddMonthlyTopupSpent(ctx, account.SellerID, amount); err != nil {
		detail.Error = err.Error()
		return detail
	}

	uc.publish(kafka.BillingEvent{
		EventType:    kafka.EventCreditsToppedUp,
		SellerID:     account.SellerID,
		EntityID:     payment.ID,
		Amount:       amount,
		Status:       string(domain.PaymentSucceeded),
		OccurredAtMs: uc.now().UnixMilli(),
	})

	detail.Success = true
	return detail
}
