package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/marktline/billing-service/internal/domain"
)

func pendingCommission(id string, amount int64, daysUntilDue int) *domain.Commission {
	return &domain.Commission{
		ID:               id,
		SellerID:         "seller-1",
		SalePrice:        amount * 20,
		OriginalAmount:   amount,
		CommissionAmount: amount,
		Status:           domain.CommissionStatusPending,
		DueDate:          testNow.AddDate(0, 0, daysUntilDue),
	}
}

func sellerWithGateway(id string) *domain.SellerAccount {
	return &domain.SellerAccount{SellerID: id, GatewayCustomerRef: "cus_" + id}
}

func TestCommissionInvoicing(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(
			pendingCommission("comm-due", 5_000, 3),
			pendingCommission("comm-later", 5_000, 60),
			pendingCommission("comm-small", 500, 3),
		)
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
	})

	reports, err := f.uc.Run(context.Background(), TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	report := reports[0]

	// Only the in-window commission above the minimum qualifies.
	if report.TotalFound != 1 {
		t.Fatalf("found = %d, want 1", report.TotalFound)
	}
	if report.TotalProcessed != 1 || report.TotalErrors != 0 {
		t.Fatalf("processed=%d errors=%d, want 1/0", report.TotalProcessed, report.TotalErrors)
	}

	stored := f.commissionRepo.get("comm-due")
	if stored.Status != domain.CommissionStatusInvoiced {
		t.Fatalf("status = %s, want INVOICED", stored.Status)
	}
	if stored.InvoiceID == "" || !strings.HasPrefix(stored.InvoiceNumber, "INV-") {
		t.Fatalf("invoice refs not stored: id=%q number=%q", stored.InvoiceID, stored.InvoiceNumber)
	}

	if f.commissionRepo.get("comm-later").Status != domain.CommissionStatusPending {
		t.Fatal("out-of-window commission was invoiced")
	}
	if f.commissionRepo.get("comm-small").Status != domain.CommissionStatusPending {
		t.Fatal("below-minimum commission was invoiced")
	}
}

func TestCommissionInvoicingExecuteNowIgnoresWindow(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(pendingCommission("comm-later", 5_000, 60))
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
	})

	reports, err := f.uc.Run(context.Background(), TaskCommissionInvoicing, true)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if reports[0].TotalProcessed != 1 {
		t.Fatalf("processed = %d, want 1", reports[0].TotalProcessed)
	}
	if f.commissionRepo.get("comm-later").Status != domain.CommissionStatusInvoiced {
		t.Fatal("execute-now run did not invoice the future commission")
	}
}

func TestCommissionInvoicingRerunIsNoop(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(pendingCommission("comm-due", 5_000, 3))
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
	})
	ctx := context.Background()

	if _, err := f.uc.Run(ctx, TaskCommissionInvoicing, false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstNumber := f.commissionRepo.get("comm-due").InvoiceNumber

	reports, err := f.uc.Run(ctx, TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if reports[0].TotalFound != 0 {
		t.Fatalf("second run found %d commissions, want 0", reports[0].TotalFound)
	}
	if f.commissionRepo.get("comm-due").InvoiceNumber != firstNumber {
		t.Fatal("invoice number changed on rerun")
	}
}

func TestCommissionInvoicingPartialFailureIsolated(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(
			pendingCommission("comm-good", 5_000, 3),
			pendingCommission("comm-bad", 5_000, 3),
		)
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
		f.gateway = &fakeGateway{
			invoiceErr: map[string]error{"comm-bad": errors.New("gateway exploded")},
		}
	})

	reports, err := f.uc.Run(context.Background(), TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	report := reports[0]
	if report.TotalProcessed != 1 || report.TotalErrors != 1 {
		t.Fatalf("processed=%d errors=%d, want 1/1", report.TotalProcessed, report.TotalErrors)
	}

	if f.commissionRepo.get("comm-good").Status != domain.CommissionStatusInvoiced {
		t.Fatal("healthy item blocked by failing one")
	}
	if f.commissionRepo.get("comm-bad").Status != domain.CommissionStatusPending {
		t.Fatal("failed item should stay pending for the next run")
	}

	var failed *ItemDetail
	for i := range report.Details {
		if !report.Details[i].Success {
			failed = &report.Details[i]
		}
	}
	if failed == nil || failed.ItemID != "comm-bad" || failed.Error == "" {
		t.Fatalf("failure detail missing or wrong: %+v", failed)
	}
}

func TestCommissionInvoicingResumesAfterFinalizeFailure(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(pendingCommission("comm-due", 5_000, 3))
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
		f.gateway = &fakeGateway{finalizeErr: errors.New("gateway timeout")}
	})
	ctx := context.Background()

	reports, err := f.uc.Run(ctx, TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if reports[0].TotalErrors != 1 {
		t.Fatalf("first run errors = %d, want 1", reports[0].TotalErrors)
	}

	// The invoice ref is claimed before finalize, so the failed item stays
	// PENDING but already carries its invoice.
	stored := f.commissionRepo.get("comm-due")
	if stored.Status != domain.CommissionStatusPending {
		t.Fatalf("status = %s, want PENDING until finalize succeeds", stored.Status)
	}
	if stored.InvoiceID == "" {
		t.Fatal("invoice ref not claimed before finalize")
	}
	claimedID := stored.InvoiceID

	f.gateway.finalizeErr = nil
	reports, err = f.uc.Run(ctx, TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if reports[0].TotalProcessed != 1 {
		t.Fatalf("second run processed = %d, want 1", reports[0].TotalProcessed)
	}

	// The resume finalizes the claimed invoice instead of raising a new one.
	if f.gateway.invoices != 1 {
		t.Fatalf("invoices created = %d, want 1 across both runs", f.gateway.invoices)
	}
	stored = f.commissionRepo.get("comm-due")
	if stored.Status != domain.CommissionStatusInvoiced {
		t.Fatalf("status = %s, want INVOICED after resume", stored.Status)
	}
	if stored.InvoiceID != claimedID {
		t.Fatalf("invoice id changed on resume: %q vs %q", stored.InvoiceID, claimedID)
	}
}

func TestCommissionInvoicingRetriesRateLimit(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(pendingCommission("comm-due", 5_000, 3))
		f.sellerRepo = newFakeSellerRepo(sellerWithGateway("seller-1"))
		f.gateway = &fakeGateway{rateLimitFirst: 2}
	})
	f.uc.Cfg.GatewayRetryAttempts = 3

	reports, err := f.uc.Run(context.Background(), TaskCommissionInvoicing, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if reports[0].TotalProcessed != 1 {
		t.Fatalf("processed = %d, want 1 after retries", reports[0].TotalProcessed)
	}
	if f.commissionRepo.get("comm-due").Status != domain.CommissionStatusInvoiced {
		t.Fatal("commission not invoiced after rate-limit retries")
	}
}
