package billing

import (
	"context"
	"log/slog"
	"math"

	"github.com/marktline/billing-service/internal/domain"
)

// runLateFeeProcessing accrues late fees on INVOICED commissions past their
// due date. The fee is always derived from the original amount, so re-running
// the task converges on the same value instead of compounding.
func (uc *DefaultBillingUsecase) runLateFeeProcessing(ctx context.Context, _ bool) *TaskReport {
	report := &TaskReport{Details: []ItemDetail{}}

	overdue, err := uc.CommissionRepo.FindOverdueInvoiced(ctx, uc.now())
	if err != nil {
		slog.Error("failed to find overdue commissions", "error", err.Error())
		report.TotalErrors++
		return report
	}
	report.TotalFound = len(overdue)

	details := runPool(ctx, uc.Cfg.TaskWorkers, overdue, uc.assessLateFee)
	tally(report, details)
	return report
}

func (uc *DefaultBillingUsecase) assessLateFee(ctx context.Context, commission *domain.Commission) ItemDetail {
	detail := ItemDetail{
		ItemID:   commission.ID,
		SellerID: commission.SellerID,
		Action:   "late_fee",
	}

	daysOverdue := int(uc.now().Sub(commission.DueDate).Hours() / 24)
	if daysOverdue < 1 {
		detail.Action = "not_overdue"
		detail.Success = true
		return detail
	}

	fee := lateFeeAmount(commission.OriginalAmount, daysOverdue, uc.Cfg.MonthlyLateFeeRate, uc.Cfg.MaxLateFeeRate)
	if fee == commission.LateFee.FeeAmount {
		detail.Action = "fee_unchanged"
		detail.Success = true
		return detail
	}

	newTotal := commission.OriginalAmount + fee
	applied, err := uc.CommissionRepo.ApplyLateFee(ctx, commission.ID, commission.Version, domain.LateFee{
		FeeAmount:   fee,
		DaysOverdue: daysOverdue,
		AssessedAt:  uc.now(),
	}, newTotal)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	if !applied {
		detail.Error = "commission changed since it was selected, skipping"
		return detail
	}

	if uc.Metrics != nil {
		uc.Metrics.LateFeesAssessedTotal.WithLabelValues().Add(float64(fee - commission.LateFee.FeeAmount))
	}

	detail.Success = true
	return detail
}

const daysPerMonth = 30.0

// lateFeeAmount computes the accrued fee on the original commission amount,
// prorated by days overdue and capped at maxRate of the original.
func lateFeeAmount(original int64, daysOverdue int, monthlyRate, maxRate float64) int64 {
	monthsOverdue := float64(daysOverdue) / daysPerMonth
	fee := int64(math.Round(float64(original) * monthlyRate * monthsOverdue))
	maxFee := int64(math.Round(float64(original) * maxRate))
	if fee > maxFee {
		fee = maxFee
	}
	return fee
}
