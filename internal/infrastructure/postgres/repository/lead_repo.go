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

type DefaultLeadRepository struct {
	DB *gorm.DB
}

func NewDefaultLeadRepository(db *gorm.DB) *DefaultLeadRepository {
	return &DefaultLeadRepository{DB: db}
}

func (r *DefaultLeadRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	leadModel := mappers.ToGORMLead(lead)
	if err := r.DB.WithContext(ctx).Create(leadModel).Error; err != nil {
		// A concurrent duplicate that slipped past the existence check lands
		// on the unique (listing, contact) index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateLead
		}
		return err
	}
	return nil
}

func (r *DefaultLeadRepository) GetLeadByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	var lead models.LeadModel
	if err := r.DB.WithContext(ctx).First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("lead not found")
		}
		return nil, err
	}
	return mappers.ToDomainLead(&lead), nil
}

func (r *DefaultLeadRepository) LeadExistsForContact(ctx context.Context, listingID, fingerprint string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.LeadModel{}).
		Where("listing_id = ? AND contact_fingerprint = ?", listingID, fingerprint).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClaimLead is the purchase hot path: a single conditional UPDATE so that
// concurrent attempts on the same lead yield exactly one winner.
func (r *DefaultLeadRepository) ClaimLead(ctx context.Context, leadID string, purchasedAt time.Time) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.LeadModel{}).
		Where("id = ? AND status = ?", leadID, domain.LeadStatusAvailable).
		Updates(map[string]interface{}{
			"status":       domain.LeadStatusPurchased,
			"purchased_at": purchasedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultLeadRepository) ReleaseLead(ctx context.Context, leadID string) error {
	result := r.DB.WithContext(ctx).Model(&models.LeadModel{}).
		Where("id = ? AND status = ?", leadID, domain.LeadStatusPurchased).
		Updates(map[string]interface{}{
			"status":       domain.LeadStatusAvailable,
			"purchased_at": nil,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *DefaultLeadRepository) UpdateLeadStatusCAS(ctx context.Context, leadID string, oldStatus, newStatus domain.LeadStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":  newStatus,
		"version": gorm.Expr("version + 1"),
	}
	switch newStatus {
	case domain.LeadStatusContacted:
		updates["contacted_at"] = at
	case domain.LeadStatusConverted:
		updates["converted_at"] = at
	}

	result := r.DB.WithContext(ctx).Model(&models.LeadModel{}).
		Where("id = ? AND status = ?", leadID, oldStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultLeadRepository) GetLeadsBySellerID(
	ctx context.Context,
	sellerID string,
	page, limit int64,
	filters domain.LeadFilters,
) ([]*domain.Lead, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&models.LeadModel{}).
		Where("seller_id = ?", sellerID)

	if len(filters.Statuses) > 0 {
		baseQuery = baseQuery.Where("status IN (?)", filters.Statuses)
	}
	if filters.ListingID != "" {
		baseQuery = baseQuery.Where("listing_id = ?", filters.ListingID)
	}
	if !filters.DateFrom.IsZero() {
		baseQuery = baseQuery.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		baseQuery = baseQuery.Where("created_at <= ?", filters.DateTo)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var leadModels []models.LeadModel
	err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&leadModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find leads: %w", err)
	}

	leads := make([]*domain.Lead, len(leadModels))
	for i, leadModel := range leadModels {
		leads[i] = mappers.ToDomainLead(&leadModel)
	}

	return leads, total, nil
}
