package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/mappers"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{DB: db}
}

// CreateForSale settles a confirmed sale: the listing flip to SOLD, the
// commission insert and the ledger owed increment succeed or fail together.
func (r *DefaultCommissionRepository) CreateForSale(ctx context.Context, sale *domain.SaleConfirmation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&models.ListingModel{}).
			Where("id = ? AND status = ?", sale.ListingID, domain.ListingActive).
			Updates(map[string]interface{}{
				"status":     domain.ListingSold,
				"sold_price": sale.SoldPrice,
				"sold_at":    sale.SoldAt,
			})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected != 1 {
			return domain.NewStateConflictError("listing is not active")
		}

		if err := tx.Create(mappers.ToGORMCommission(sale.Commission)).Error; err != nil {
			return err
		}

		ledger := tx.Model(&models.SellerAccountModel{}).
			Where("seller_id = ?", sale.Commission.SellerID).
			Update("total_commission_owed", gorm.Expr("total_commission_owed + ?", sale.Commission.CommissionAmount))
		if ledger.Error != nil {
			return ledger.Error
		}
		if ledger.RowsAffected != 1 {
			return domain.NewNotFoundError("seller account not found")
		}

		return nil
	})
}

func (r *DefaultCommissionRepository) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	var commission models.CommissionModel
	if err := r.DB.WithContext(ctx).First(&commission, "id = ?", commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("commission not found")
		}
		return nil, err
	}
	return mappers.ToDomainCommission(&commission), nil
}

func (r *DefaultCommissionRepository) GetCommissionsBySellerID(ctx context.Context, sellerID string, statuses []domain.CommissionStatus) ([]*domain.Commission, error) {
	query := r.DB.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("seller_id = ?", sellerID)
	if len(statuses) > 0 {
		query = query.Where("status IN (?)", statuses)
	}

	var commissionModels []models.CommissionModel
	if err := query.Order("created_at DESC").Find(&commissionModels).Error; err != nil {
		return nil, err
	}

	return toDomainCommissions(commissionModels), nil
}

func (r *DefaultCommissionRepository) FindInvoiceable(ctx context.Context, minAmount int64, dueBefore time.Time) ([]*domain.Commission, error) {
	var commissionModels []models.CommissionModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.CommissionStatusPending).
		Where("commission_amount >= ?", minAmount).
		Where("due_date < ?", dueBefore).
		Find(&commissionModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

func (r *DefaultCommissionRepository) FindOverdueInvoiced(ctx context.Context, asOf time.Time) ([]*domain.Commission, error) {
	var commissionModels []models.CommissionModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.CommissionStatusInvoiced).
		Where("due_date < ?", asOf).
		Find(&commissionModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

func (r *DefaultCommissionRepository) FindPayable(ctx context.Context) ([]*domain.Commission, error) {
	var commissionModels []models.CommissionModel
	err := r.DB.WithContext(ctx).
		Where("status IN (?)", []domain.CommissionStatus{domain.CommissionStatusPending, domain.CommissionStatusInvoiced}).
		Order("seller_id, created_at").
		Find(&commissionModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

// ClaimInvoice stores the gateway refs on the still-PENDING row. Writing the
// claim before the invoice is finalized means a crashed run leaves a
// resumable record instead of an untracked invoice.
func (r *DefaultCommissionRepository) ClaimInvoice(ctx context.Context, commissionID string, version int64, invoiceID, invoiceNumber string) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("id = ? AND status = ? AND version = ?", commissionID, domain.CommissionStatusPending, version).
		Updates(map[string]interface{}{
			"invoice_id":     invoiceID,
			"invoice_number": invoiceNumber,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultCommissionRepository) MarkInvoiced(ctx context.Context, commissionID string, version int64) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("id = ? AND status = ? AND version = ?", commissionID, domain.CommissionStatusPending, version).
		Updates(map[string]interface{}{
			"status":  domain.CommissionStatusInvoiced,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ApplyLateFee writes the fee breakdown and moves the seller ledger by the
// fee delta in one transaction, keeping owed equal to the sum of open
// commission amounts.
func (r *DefaultCommissionRepository) ApplyLateFee(ctx context.Context, commissionID string, version int64, fee domain.LateFee, newTotal int64) (bool, error) {
	var applied bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commission models.CommissionModel
		if err := tx.First(&commission, "id = ?", commissionID).Error; err != nil {
			return err
		}

		result := tx.Model(&models.CommissionModel{}).
			Where("id = ? AND status = ? AND version = ?", commissionID, domain.CommissionStatusInvoiced, version).
			Updates(map[string]interface{}{
				"commission_amount": newTotal,
				"late_fee_amount":   fee.FeeAmount,
				"late_fee_days":     fee.DaysOverdue,
				"late_fee_at":       fee.AssessedAt,
				"version":           gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}

		ledger := tx.Model(&models.SellerAccountModel{}).
			Where("seller_id = ?", commission.SellerID).
			Update("total_commission_owed", gorm.Expr("total_commission_owed + ?", newTotal-commission.CommissionAmount))
		if ledger.Error != nil {
			return ledger.Error
		}
		if ledger.RowsAffected != 1 {
			return domain.NewNotFoundError("seller account not found")
		}

		applied = true
		return nil
	})
	return applied, err
}

func (r *DefaultCommissionRepository) MarkStatusAdmin(ctx context.Context, commissionID string, version int64, newStatus domain.CommissionStatus) (bool, error) {
	if newStatus != domain.CommissionStatusDisputed && newStatus != domain.CommissionStatusCancelled {
		return false, domain.NewValidationError("admin transition must target DISPUTED or CANCELLED")
	}

	return r.adminTransition(ctx, commissionID, version, newStatus)
}

func (r *DefaultCommissionRepository) adminTransition(ctx context.Context, commissionID string, version int64, newStatus domain.CommissionStatus) (bool, error) {
	var moved bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commission models.CommissionModel
		if err := tx.First(&commission, "id = ?", commissionID).Error; err != nil {
			return err
		}
		if commission.Status.Terminal() {
			return domain.NewStateConflictError("commission already terminal")
		}

		result := tx.Model(&models.CommissionModel{}).
			Where("id = ? AND version = ?", commissionID, version).
			Updates(map[string]interface{}{
				"status":  newStatus,
				"version": gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domain.ErrVersionConflict
		}

		// A cancelled commission no longer counts against the seller.
		if newStatus == domain.CommissionStatusCancelled &&
			(commission.Status == domain.CommissionStatusPending || commission.Status == domain.CommissionStatusInvoiced) {
			ledger := tx.Model(&models.SellerAccountModel{}).
				Where("seller_id = ?", commission.SellerID).
				Update("total_commission_owed", gorm.Expr("total_commission_owed - ?", commission.CommissionAmount))
			if ledger.Error != nil {
				return ledger.Error
			}
		}

		moved = true
		return nil
	})
	return moved, err
}

// SettleBatch finalizes one seller's payout: every member commission flips to
// PAID under a version check and the ledger moves in the same transaction.
// Any conflict rolls the whole batch back.
func (r *DefaultCommissionRepository) SettleBatch(ctx context.Context, batch *domain.PayoutBatch, members []*domain.Commission, paidAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, member := range members {
			result := tx.Model(&models.CommissionModel{}).
				Where("id = ? AND status IN (?) AND version = ?",
					member.ID,
					[]domain.CommissionStatus{domain.CommissionStatusPending, domain.CommissionStatusInvoiced},
					member.Version).
				Updates(map[string]interface{}{
					"status":    domain.CommissionStatusPaid,
					"paid_date": paidAt,
					"version":   gorm.Expr("version + 1"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != 1 {
				return fmt.Errorf("commission %s: %w", member.ID, domain.ErrVersionConflict)
			}
		}

		ledger := tx.Model(&models.SellerAccountModel{}).
			Where("seller_id = ?", batch.SellerID).
			Updates(map[string]interface{}{
				"total_commission_paid": gorm.Expr("total_commission_paid + ?", batch.TotalAmount),
				"total_commission_owed": gorm.Expr("total_commission_owed - ?", batch.TotalAmount),
			})
		if ledger.Error != nil {
			return ledger.Error
		}
		if ledger.RowsAffected != 1 {
			return domain.NewNotFoundError("seller account not found")
		}

		return tx.Create(mappers.ToGORMPayoutBatch(batch)).Error
	})
}

func (r *DefaultCommissionRepository) PendingTotalBySeller(ctx context.Context, sellerID string) (int64, int64, error) {
	type pendingAgg struct {
		Count int64
		Sum   int64
	}
	var agg pendingAgg
	err := r.DB.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("seller_id = ?", sellerID).
		Where("status IN (?)", []domain.CommissionStatus{domain.CommissionStatusPending, domain.CommissionStatusInvoiced}).
		Select("COUNT(*) as count, COALESCE(SUM(commission_amount), 0) as sum").
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("pending agg: %w", err)
	}
	return agg.Sum, agg.Count, nil
}

func toDomainCommissions(commissionModels []models.CommissionModel) []*domain.Commission {
	commissions := make([]*domain.Commission, len(commissionModels))
	for i, commissionModel := range commissionModels {
		commissions[i] = mappers.ToDomainCommission(&commissionModel)
	}
	return commissions
}
