package domain

import (
	"context"
	"time"
)

type PlanTier string

const (
	PlanBasic      PlanTier = "BASIC"
	PlanPremium    PlanTier = "PREMIUM"
	PlanDealer     PlanTier = "DEALER"
	PlanEnterprise PlanTier = "ENTERPRISE"
)

// CommissionRate returns the sale commission rate for the tier. The rate is
// snapshotted into each commission at sale time; later plan changes never
// touch existing records.
func (t PlanTier) CommissionRate() float64 {
	switch t {
	case PlanPremium:
		return 0.04
	case PlanDealer:
		return 0.035
	case PlanEnterprise:
		return 0.03
	default:
		return 0.05
	}
}

// SellerAccount aggregates the seller-side ledger. TotalCommissionOwed and
// TotalCommissionPaid move only inside the same transaction as the commission
// status change they reflect.
type SellerAccount struct {
	SellerID            string
	PlanTier            PlanTier
	TotalCommissionOwed int64
	TotalCommissionPaid int64
	LeadCredits         int64
	AutoTopup           bool
	MonthlyTopupSpent   int64
	BankVerified        bool
	GatewayCustomerRef  string
	GatewayAccountRef   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type SellerAccountRepository interface {
	GetSellerAccount(ctx context.Context, sellerID string) (*SellerAccount, error)
	CreateSellerAccount(ctx context.Context, account *SellerAccount) error

	// DebitLeadCredits decrements the credit balance only when it still
	// covers amount. Returns false otherwise.
	DebitLeadCredits(ctx context.Context, sellerID string, amount int64) (bool, error)
	AddLeadCredits(ctx context.Context, sellerID string, amount int64) error
	AddMonthlyTopupSpent(ctx context.Context, sellerID string, amount int64) error

	UpdatePlanTier(ctx context.Context, sellerID string, tier PlanTier) error

	// FindTopupCandidates returns auto-topup sellers whose credit balance is
	// below the floor.
	FindTopupCandidates(ctx context.Context, creditFloor int64) ([]*SellerAccount, error)
}
