package billing

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
)

// runCommissionInvoicing picks up PENDING commissions due within the
// lookahead window (or every pending one when executeNow is set), raises a
// gateway invoice for each and moves the commission to INVOICED. The invoice
// refs are claimed on the row before the invoice is finalized, so a run that
// dies mid-item resumes finalize-only instead of raising a second invoice.
func (uc *DefaultBillingUsecase) runCommissionInvoicing(ctx context.Context, executeNow bool) *TaskReport {
	report := &TaskReport{Details: []ItemDetail{}}

	horizon := uc.now().AddDate(0, 0, uc.Cfg.InvoiceLookaheadDays)
	if executeNow {
		horizon = uc.now().AddDate(100, 0, 0)
	}

	commissions, err := uc.CommissionRepo.FindInvoiceable(ctx, uc.Cfg.MinInvoiceAmount, horizon)
	if err != nil {
		slog.Error("failed to find invoiceable commissions", "error", err.Error())
		report.TotalErrors++
		return report
	}
	report.TotalFound = len(commissions)

	details := runPool(ctx, uc.Cfg.TaskWorkers, commissions, uc.invoiceCommission)
	tally(report, details)
	return report
}

func (uc *DefaultBillingUsecase) invoiceCommission(ctx context.Context, commission *domain.Commission) ItemDetail {
	detail := ItemDetail{
		ItemID:   commission.ID,
		SellerID: commission.SellerID,
		Action:   "invoice",
	}

	invoiceID := commission.InvoiceID
	version := commission.Version

	if invoiceID == "" {
		account, err := uc.SellerRepo.GetSellerAccount(ctx, commission.SellerID)
		if err != nil {
			detail.Error = err.Error()
			return detail
		}

		invoiceNumber := uc.invoiceNumber()
		metadata := map[string]string{
			"commission_id":  commission.ID,
			"listing_id":     commission.ListingID,
			"invoice_number": invoiceNumber,
			"sale_price":     strconv.FormatInt(commission.SalePrice, 10),
		}

		err = retryGateway(ctx, uc.Cfg.GatewayRetryAttempts, func() error {
			var gwErr error
			invoiceID, gwErr = uc.Gateway.CreateInvoice(ctx, account.GatewayCustomerRef, commission.CommissionAmount, uc.Cfg.CommissionDueDays, metadata)
			return gwErr
		})
		if err != nil {
			detail.Error = err.Error()
			return detail
		}

		claimed, err := uc.CommissionRepo.ClaimInvoice(ctx, commission.ID, version, invoiceID, invoiceNumber)
		if err != nil {
			detail.Error = err.Error()
			return detail
		}
		if !claimed {
			detail.Error = "commission changed since it was selected, skipping"
			return detail
		}
		version++
	}

	// Resume point: a PENDING commission that already carries an invoice ref
	// came out of an interrupted run and only needs finalize + mark.
	if err := retryGateway(ctx, uc.Cfg.GatewayRetryAttempts, func() error {
		return uc.Gateway.FinalizeAndSend(ctx, invoiceID)
	}); err != nil {
		detail.Error = err.Error()
		return detail
	}

	marked, err := uc.CommissionRepo.MarkInvoiced(ctx, commission.ID, version)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	if !marked {
		detail.Error = "commission changed since it was selected, skipping"
		return detail
	}

	if uc.Metrics != nil {
		uc.Metrics.CommissionsInvoicedTotal.WithLabelValues().Inc()
	}
	uc.publish(kafka.BillingEvent{
		EventType:    kafka.EventCommissionInvoiced,
		SellerID:     commission.SellerID,
		EntityID:     commission.ID,
		Amount:       commission.CommissionAmount,
		Status:       string(domain.CommissionStatusInvoiced),
		OccurredAtMs: uc.now().UnixMilli(),
	})

	detail.Success = true
	return detail
}
