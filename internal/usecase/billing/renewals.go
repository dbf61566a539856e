package billing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/marktline/billing-service/internal/domain"
)

// runSubscriptionRenewals reconciles local subscriptions against the gateway
// around their period end. The gateway is the source of truth: an active
// gateway subscription rolls the local period forward, a canceled one drops
// the seller to the basic plan, anything else is flagged past due.
func (uc *DefaultBillingUsecase) runSubscriptionRenewals(ctx context.Context, executeNow bool) *TaskReport {
	report := &TaskReport{Details: []ItemDetail{}}

	horizon := uc.now().AddDate(0, 0, 1)
	if executeNow {
		horizon = uc.now().AddDate(100, 0, 0)
	}

	subs, err := uc.SubscriptionRepo.FindSubscriptionsForRenewal(ctx, horizon)
	if err != nil {
		slog.Error("failed to find subscriptions for renewal", "error", err.Error())
		report.TotalErrors++
		return report
	}
	report.TotalFound = len(subs)

	details := runPool(ctx, uc.Cfg.TaskWorkers, subs, uc.renewSubscription)
	tally(report, details)
	return report
}

func (uc *DefaultBillingUsecase) renewSubscription(ctx context.Context, sub *domain.Subscription) ItemDetail {
	detail := ItemDetail{
		ItemID:   sub.ID,
		SellerID: sub.SellerID,
		Action:   "renew",
	}

	var gatewaySub *domain.GatewaySubscription
	err := retryGateway(ctx, uc.Cfg.GatewayRetryAttempts, func() error {
		var gwErr error
		gatewaySub, gwErr = uc.Gateway.RetrieveSubscription(ctx, sub.GatewaySubRef)
		return gwErr
	})
	if err != nil {
		detail.Error = err.Error()
		return detail
	}

	switch strings.ToLower(gatewaySub.Status) {
	case "active":
		if err := uc.SubscriptionRepo.UpdateSubscription(ctx, sub.ID, domain.SubscriptionActive, gatewaySub.PeriodEnd); err != nil {
			detail.Error = err.Error()
			return detail
		}
		detail.Action = "renewed"

	case "canceled":
		if err := uc.SubscriptionRepo.UpdateSubscription(ctx, sub.ID, domain.SubscriptionCanceled, sub.CurrentPeriodEnd); err != nil {
			detail.Error = err.Error()
			return detail
		}
		if err := uc.SellerRepo.UpdatePlanTier(ctx, sub.SellerID, domain.PlanBasic); err != nil {
			detail.Error = err.Error()
			return detail
		}
		detail.Action = "downgraded"

	default:
		if err := uc.SubscriptionRepo.UpdateSubscription(ctx, sub.ID, domain.SubscriptionPastDue, sub.CurrentPeriodEnd); err != nil {
			detail.Error = err.Error()
			return detail
		}
		detail.Action = "past_due"
	}

	detail.Success = true
	return detail
}
