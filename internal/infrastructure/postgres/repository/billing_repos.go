package repository

import (
	"context"
	"errors"
	"time"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/mappers"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSubscriptionRepository struct {
	DB *gorm.DB
}

func NewDefaultSubscriptionRepository(db *gorm.DB) *DefaultSubscriptionRepository {
	return &DefaultSubscriptionRepository{DB: db}
}

func (r *DefaultSubscriptionRepository) GetSubscriptionBySellerID(ctx context.Context, sellerID string) (*domain.Subscription, error) {
	var sub models.SubscriptionModel
	err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("subscription not found")
		}
		return nil, err
	}
	return mappers.ToDomainSubscription(&sub), nil
}

func (r *DefaultSubscriptionRepository) FindSubscriptionsForRenewal(ctx context.Context, dueBefore time.Time) ([]*domain.Subscription, error) {
	var subModels []models.SubscriptionModel
	err := r.DB.WithContext(ctx).
		Where("status IN (?)", []domain.SubscriptionStatus{domain.SubscriptionActive, domain.SubscriptionPastDue}).
		Where("current_period_end < ?", dueBefore).
		Find(&subModels).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*domain.Subscription, len(subModels))
	for i, subModel := range subModels {
		subs[i] = mappers.ToDomainSubscription(&subModel)
	}
	return subs, nil
}

func (r *DefaultSubscriptionRepository) UpdateSubscription(ctx context.Context, subID string, status domain.SubscriptionStatus, periodEnd time.Time) error {
	result := r.DB.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", subID).
		Updates(map[string]interface{}{
			"status":             status,
			"current_period_end": periodEnd,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domain.NewNotFoundError("subscription not found")
	}
	return nil
}

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMPayment(payment)).Error
}

func (r *DefaultPaymentRepository) FindFailedPayments(ctx context.Context) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.PaymentFailed).
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*domain.Payment, len(paymentModels))
	for i, paymentModel := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModel)
	}
	return payments, nil
}

func (r *DefaultPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == domain.PaymentFailed {
		updates["failed_at"] = time.Now()
	}
	return r.DB.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}

func (r *DefaultPaymentRepository) MarkPaymentNotified(ctx context.Context, paymentID string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Update("notified_at", at).Error
}

type DefaultListingRepository struct {
	DB *gorm.DB
}

func NewDefaultListingRepository(db *gorm.DB) *DefaultListingRepository {
	return &DefaultListingRepository{DB: db}
}

func (r *DefaultListingRepository) GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	var listing models.ListingModel
	if err := r.DB.WithContext(ctx).First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("listing not found")
		}
		return nil, err
	}
	return mappers.ToDomainListing(&listing), nil
}

type DefaultPayoutBatchRepository struct {
	DB *gorm.DB
}

func NewDefaultPayoutBatchRepository(db *gorm.DB) *DefaultPayoutBatchRepository {
	return &DefaultPayoutBatchRepository{DB: db}
}

func (r *DefaultPayoutBatchRepository) CreatePayoutBatch(ctx context.Context, batch *domain.PayoutBatch) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMPayoutBatch(batch)).Error
}

func (r *DefaultPayoutBatchRepository) GetPayoutBatchesBySellerID(ctx context.Context, sellerID string, limit int64) ([]*domain.PayoutBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	var batchModels []models.PayoutBatchModel
	err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Limit(int(limit)).
		Find(&batchModels).Error
	if err != nil {
		return nil, err
	}

	batches := make([]*domain.PayoutBatch, len(batchModels))
	for i, batchModel := range batchModels {
		batches[i] = mappers.ToDomainPayoutBatch(&batchModel)
	}
	return batches, nil
}
