package commission

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
)

type CommissionUsecase interface {
	ConfirmSale(ctx context.Context, listingID string, soldAt time.Time) (*domain.Commission, error)
	GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error)
	GetCommissionsBySellerID(ctx context.Context, sellerID string, statuses []domain.CommissionStatus) ([]*domain.Commission, error)
	MarkDisputed(ctx context.Context, commissionID string) error
	CancelCommission(ctx context.Context, commissionID string) error
}

type EventPublisher interface {
	PublishBillingEvent(event kafka.BillingEvent) error
}

type DefaultCommissionUsecase struct {
	CommissionRepo domain.CommissionRepository
	ListingRepo    domain.ListingRepository
	SellerRepo     domain.SellerAccountRepository
	Publisher      EventPublisher
	Metrics        *metrics.BillingMetrics
	DueDays        int
}

func NewDefaultCommissionUsecase(
	commissionRepo domain.CommissionRepository,
	listingRepo domain.ListingRepository,
	sellerRepo domain.SellerAccountRepository,
	publisher EventPublisher,
	billingMetrics *metrics.BillingMetrics,
	dueDays int) *DefaultCommissionUsecase {

	return &DefaultCommissionUsecase{
		CommissionRepo: commissionRepo,
		ListingRepo:    listingRepo,
		SellerRepo:     sellerRepo,
		Publisher:      publisher,
		Metrics:        billingMetrics,
		DueDays:        dueDays,
	}
}

// ConfirmSale snapshots the seller's current plan rate into a new commission
// and settles the listing flip, the insert and the ledger increment in one
// transaction. The sold price is the listing's list price.
func (uc *DefaultCommissionUsecase) ConfirmSale(ctx context.Context, listingID string, soldAt time.Time) (*domain.Commission, error) {
	listing, err := uc.ListingRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingActive {
		return nil, domain.NewStateConflictError("listing is not active")
	}

	account, err := uc.SellerRepo.GetSellerAccount(ctx, listing.SellerID)
	if err != nil {
		return nil, err
	}

	rate := account.PlanTier.CommissionRate()
	amount := int64(math.Round(float64(listing.Price) * rate))

	commission := &domain.Commission{
		ID:               uuid.NewString(),
		ListingID:        listing.ID,
		SellerID:         listing.SellerID,
		SalePrice:        listing.Price,
		CommissionRate:   rate,
		OriginalAmount:   amount,
		CommissionAmount: amount,
		Status:           domain.CommissionStatusPending,
		DueDate:          soldAt.AddDate(0, 0, uc.DueDays),
		CreatedAt:        soldAt,
		UpdatedAt:        soldAt,
	}

	sale := &domain.SaleConfirmation{
		Commission: commission,
		ListingID:  listing.ID,
		SoldPrice:  listing.Price,
		SoldAt:     soldAt,
	}
	if err := uc.CommissionRepo.CreateForSale(ctx, sale); err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.CommissionsCreatedTotal.WithLabelValues(string(account.PlanTier)).Inc()
		uc.Metrics.CommissionAmountTotal.WithLabelValues(string(account.PlanTier)).Add(float64(amount))
	}

	if uc.Publisher != nil {
		go func(event kafka.BillingEvent) {
			if err := uc.Publisher.PublishBillingEvent(event); err != nil {
				slog.Error("failed to publish commission event", "commission_id", commission.ID, "error", err.Error())
			}
		}(kafka.BillingEvent{
			EventType: kafka.EventCommissionCreated,
			SellerID:  commission.SellerID,
			EntityID:  commission.ID,
			Amount:    amount,
			Status:    string(domain.CommissionStatusPending),
		})
	}

	return commission, nil
}

func (uc *DefaultCommissionUsecase) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	return uc.CommissionRepo.GetCommissionByID(ctx, commissionID)
}

func (uc *DefaultCommissionUsecase) GetCommissionsBySellerID(ctx context.Context, sellerID string, statuses []domain.CommissionStatus) ([]*domain.Commission, error) {
	return uc.CommissionRepo.GetCommissionsBySellerID(ctx, sellerID, statuses)
}

func (uc *DefaultCommissionUsecase) MarkDisputed(ctx context.Context, commissionID string) error {
	return uc.adminTransition(ctx, commissionID, domain.CommissionStatusDisputed)
}

func (uc *DefaultCommissionUsecase) CancelCommission(ctx context.Context, commissionID string) error {
	return uc.adminTransition(ctx, commissionID, domain.CommissionStatusCancelled)
}

func (uc *DefaultCommissionUsecase) adminTransition(ctx context.Context, commissionID string, newStatus domain.CommissionStatus) error {
	commission, err := uc.CommissionRepo.GetCommissionByID(ctx, commissionID)
	if err != nil {
		return err
	}
	if commission.Status.Terminal() {
		return domain.NewStateConflictError("commission already terminal")
	}

	moved, err := uc.CommissionRepo.MarkStatusAdmin(ctx, commissionID, commission.Version, newStatus)
	if err != nil {
		return err
	}
	if !moved {
		return domain.NewStateConflictError("commission changed concurrently")
	}
	return nil
}
