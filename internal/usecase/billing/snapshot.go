package billing

import (
	"context"

	"github.com/marktline/billing-service/internal/domain"
)

// SnapshotOutput is the per-seller billing view: ledger totals, credit
// balance, plan and subscription state, and the live pending/invoiced
// commission totals.
type SnapshotOutput struct {
	SellerID              string  `json:"seller_id"`
	PlanTier              string  `json:"plan_tier"`
	CommissionRate        float64 `json:"commission_rate"`
	TotalCommissionOwed   int64   `json:"total_commission_owed"`
	TotalCommissionPaid   int64   `json:"total_commission_paid"`
	PendingTotal          int64   `json:"pending_total"`
	InvoicedTotal         int64   `json:"invoiced_total"`
	LeadCredits           int64   `json:"lead_credits"`
	AutoTopup             bool    `json:"auto_topup"`
	MonthlyTopupSpent     int64   `json:"monthly_topup_spent"`
	BankVerified          bool    `json:"bank_verified"`
	SubscriptionStatus    string  `json:"subscription_status,omitempty"`
	SubscriptionPeriodEnd string  `json:"subscription_period_end,omitempty"`
}

type OverviewOutput struct {
	InvoiceableCommissions int `json:"invoiceable_commissions"`
	OverdueCommissions     int `json:"overdue_commissions"`
	PayableCommissions     int `json:"payable_commissions"`
	FailedPayments         int `json:"failed_payments"`
	TopupCandidates        int `json:"topup_candidates"`
}

func (uc *DefaultBillingUsecase) SellerSnapshot(ctx context.Context, sellerID string) (*SnapshotOutput, error) {
	if sellerID == "" {
		return nil, domain.NewValidationError("seller id is required")
	}

	account, err := uc.SellerRepo.GetSellerAccount(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	pending, invoiced, err := uc.CommissionRepo.PendingTotalBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	out := &SnapshotOutput{
		SellerID:            account.SellerID,
		PlanTier:            string(account.PlanTier),
		CommissionRate:      account.PlanTier.CommissionRate(),
		TotalCommissionOwed: account.TotalCommissionOwed,
		TotalCommissionPaid: account.TotalCommissionPaid,
		PendingTotal:        pending,
		InvoicedTotal:       invoiced,
		LeadCredits:         account.LeadCredits,
		AutoTopup:           account.AutoTopup,
		MonthlyTopupSpent:   account.MonthlyTopupSpent,
		BankVerified:        account.BankVerified,
	}

	// Sellers without a subscription are on the free basic plan.
	sub, err := uc.SubscriptionRepo.GetSubscriptionBySellerID(ctx, sellerID)
	if err != nil && domain.CodeOf(err) != domain.CodeNotFound {
		return nil, err
	}
	if sub != nil {
		out.SubscriptionStatus = string(sub.Status)
		out.SubscriptionPeriodEnd = sub.CurrentPeriodEnd.Format("2006-01-02")
	}

	return out, nil
}

// Overview counts the work waiting for each automation task. It reads with
// the same queries the tasks run, so the numbers match what a run would find.
func (uc *DefaultBillingUsecase) Overview(ctx context.Context) (*OverviewOutput, error) {
	now := uc.now()

	invoiceable, err := uc.CommissionRepo.FindInvoiceable(ctx, uc.Cfg.MinInvoiceAmount, now.AddDate(0, 0, uc.Cfg.InvoiceLookaheadDays))
	if err != nil {
		return nil, err
	}
	overdue, err := uc.CommissionRepo.FindOverdueInvoiced(ctx, now)
	if err != nil {
		return nil, err
	}
	payable, err := uc.CommissionRepo.FindPayable(ctx)
	if err != nil {
		return nil, err
	}
	failed, err := uc.PaymentRepo.FindFailedPayments(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.SellerRepo.FindTopupCandidates(ctx, uc.Cfg.CreditTopupFloor)
	if err != nil {
		return nil, err
	}

	return &OverviewOutput{
		InvoiceableCommissions: len(invoiceable),
		OverdueCommissions:     len(overdue),
		PayableCommissions:     len(payable),
		FailedPayments:         len(failed),
		TopupCandidates:        len(candidates),
	}, nil
}
