package billing

import (
	"context"
	"log/slog"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
)

// runFailedPaymentRecovery re-checks failed payments against the gateway.
// A payment that succeeded out of band is reconciled, one that needs a new
// payment method gets flagged and the seller notified once. Still-failed
// payments are left for the next run.
func (uc *DefaultBillingUsecase) runFailedPaymentRecovery(ctx context.Context, _ bool) *TaskReport {
	report := &TaskReport{Details: []ItemDetail{}}

	payments, err := uc.PaymentRepo.FindFailedPayments(ctx)
	if err != nil {
		slog.Error("failed to find failed payments", "error", err.Error())
		report.TotalErrors++
		return report
	}
	report.TotalFound = len(payments)

	details := runPool(ctx, uc.Cfg.TaskWorkers, payments, uc.recoverPayment)
	tally(report, details)
	return report
}

func (uc *DefaultBillingUsecase) recoverPayment(ctx context.Context, payment *domain.Payment) ItemDetail {
	detail := ItemDetail{
		ItemID:   payment.ID,
		SellerID: payment.SellerID,
		Action:   "recover",
	}

	var status domain.IntentStatus
	err := retryGateway(ctx, uc.Cfg.GatewayRetryAttempts, func() error {
		var gwErr error
		status, gwErr = uc.Gateway.RetrievePaymentIntent(ctx, payment.GatewayIntentRef)
		return gwErr
	})
	if err != nil {
		detail.Error = err.Error()
		return detail
	}

	switch status {
	case domain.IntentSucceeded:
		if err := uc.PaymentRepo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentSucceeded); err != nil {
			detail.Error = err.Error()
			return detail
		}
		detail.Action = "recovered"

	case domain.IntentRequiresNewMethod:
		if err := uc.PaymentRepo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentRequiresNewMethod); err != nil {
			detail.Error = err.Error()
			return detail
		}
		if payment.NotifiedAt == nil {
			if err := uc.PaymentRepo.MarkPaymentNotified(ctx, payment.ID, uc.now()); err != nil {
				detail.Error = err.Error()
				return detail
			}
			uc.publish(kafka.BillingEvent{
				EventType:    kafka.EventPaymentActionNeeded,
				SellerID:     payment.SellerID,
				EntityID:     payment.ID,
				Amount:       payment.Amount,
				Status:       string(domain.PaymentRequiresNewMethod),
				OccurredAtMs: uc.now().UnixMilli(),
			})
		}
		detail.Action = "needs_new_method"

	default:
		detail.Action = "still_failed"
	}

	detail.Success = true
	return detail
}
