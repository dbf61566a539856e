package repository

import (
	"context"
	"errors"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/mappers"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSellerAccountRepository struct {
	DB *gorm.DB
}

func NewDefaultSellerAccountRepository(db *gorm.DB) *DefaultSellerAccountRepository {
	return &DefaultSellerAccountRepository{DB: db}
}

func (r *DefaultSellerAccountRepository) GetSellerAccount(ctx context.Context, sellerID string) (*domain.SellerAccount, error) {
	var account models.SellerAccountModel
	if err := r.DB.WithContext(ctx).First(&account, "seller_id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("seller account not found")
		}
		return nil, err
	}
	return mappers.ToDomainSellerAccount(&account), nil
}

func (r *DefaultSellerAccountRepository) CreateSellerAccount(ctx context.Context, account *domain.SellerAccount) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMSellerAccount(account)).Error
}

// DebitLeadCredits spends credits with a balance guard in the WHERE clause so
// two concurrent purchases can never overdraw the account.
func (r *DefaultSellerAccountRepository) DebitLeadCredits(ctx context.Context, sellerID string, amount int64) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.SellerAccountModel{}).
		Where("seller_id = ? AND lead_credits >= ?", sellerID, amount).
		Update("lead_credits", gorm.Expr("lead_credits - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultSellerAccountRepository) AddLeadCredits(ctx context.Context, sellerID string, amount int64) error {
	result := r.DB.WithContext(ctx).Model(&models.SellerAccountModel{}).
		Where("seller_id = ?", sellerID).
		Update("lead_credits", gorm.Expr("lead_credits + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domain.NewNotFoundError("seller account not found")
	}
	return nil
}

func (r *DefaultSellerAccountRepository) AddMonthlyTopupSpent(ctx context.Context, sellerID string, amount int64) error {
	return r.DB.WithContext(ctx).Model(&models.SellerAccountModel{}).
		Where("seller_id = ?", sellerID).
		Update("monthly_topup_spent", gorm.Expr("monthly_topup_spent + ?", amount)).Error
}

func (r *DefaultSellerAccountRepository) UpdatePlanTier(ctx context.Context, sellerID string, tier domain.PlanTier) error {
	result := r.DB.WithContext(ctx).Model(&models.SellerAccountModel{}).
		Where("seller_id = ?", sellerID).
		Update("plan_tier", tier)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domain.NewNotFoundError("seller account not found")
	}
	return nil
}

func (r *DefaultSellerAccountRepository) FindTopupCandidates(ctx context.Context, creditFloor int64) ([]*domain.SellerAccount, error) {
	var accountModels []models.SellerAccountModel
	err := r.DB.WithContext(ctx).
		Where("auto_topup = ?", true).
		Where("lead_credits < ?", creditFloor).
		Find(&accountModels).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.SellerAccount, len(accountModels))
	for i, accountModel := range accountModels {
		accounts[i] = mappers.ToDomainSellerAccount(&accountModel)
	}
	return accounts, nil
}
