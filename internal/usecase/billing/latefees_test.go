package billing

import (
	"context"
	"testing"

	"github.com/marktline/billing-service/internal/domain"
)

func TestLateFeeAmount(t *testing.T) {
	cases := []struct {
		name        string
		original    int64
		daysOverdue int
		want        int64
	}{
		{"45 days on 10000", 10_000, 45, 225},
		{"one month on 10000", 10_000, 30, 150},
		{"cap reached", 10_000, 300, 1_000},
		{"exactly at cap", 10_000, 200, 1_000},
		{"single day", 10_000, 1, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lateFeeAmount(tc.original, tc.daysOverdue, 0.015, 0.10)
			if got != tc.want {
				t.Fatalf("lateFeeAmount(%d, %d) = %d, want %d", tc.original, tc.daysOverdue, got, tc.want)
			}
		})
	}
}

func overdueCommission(id string, daysOverdue int) *domain.Commission {
	return &domain.Commission{
		ID:               id,
		SellerID:         "seller-1",
		SalePrice:        200_000,
		OriginalAmount:   10_000,
		CommissionAmount: 10_000,
		Status:           domain.CommissionStatusInvoiced,
		DueDate:          testNow.AddDate(0, 0, -daysOverdue),
	}
}

func TestLateFeeProcessing(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(overdueCommission("comm-1", 45))
	})

	reports, err := f.uc.Run(context.Background(), TaskLateFeeProcessing, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	report := reports[0]
	if report.TotalProcessed != 1 || report.TotalErrors != 0 {
		t.Fatalf("processed=%d errors=%d, want 1/0", report.TotalProcessed, report.TotalErrors)
	}

	stored := f.commissionRepo.get("comm-1")
	if stored.LateFee.FeeAmount != 225 {
		t.Fatalf("fee = %d, want 225", stored.LateFee.FeeAmount)
	}
	if stored.LateFee.DaysOverdue != 45 {
		t.Fatalf("days overdue = %d, want 45", stored.LateFee.DaysOverdue)
	}
	// Total carries the fee, the base never moves.
	if stored.CommissionAmount != 10_225 {
		t.Fatalf("total = %d, want 10225", stored.CommissionAmount)
	}
	if stored.OriginalAmount != 10_000 {
		t.Fatalf("original = %d, want 10000 untouched", stored.OriginalAmount)
	}
}

func TestLateFeeIdempotentRerun(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(overdueCommission("comm-1", 45))
	})
	ctx := context.Background()

	if _, err := f.uc.Run(ctx, TaskLateFeeProcessing, false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	afterFirst := f.commissionRepo.get("comm-1")

	// Re-running on the same day must not change anything.
	reports, err := f.uc.Run(ctx, TaskLateFeeProcessing, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if reports[0].TotalErrors != 0 {
		t.Fatalf("second run produced %d errors", reports[0].TotalErrors)
	}

	afterSecond := f.commissionRepo.get("comm-1")
	if afterSecond.CommissionAmount != afterFirst.CommissionAmount {
		t.Fatalf("total changed on rerun: %d vs %d", afterSecond.CommissionAmount, afterFirst.CommissionAmount)
	}
	if afterSecond.LateFee.FeeAmount != afterFirst.LateFee.FeeAmount {
		t.Fatalf("fee changed on rerun: %d vs %d", afterSecond.LateFee.FeeAmount, afterFirst.LateFee.FeeAmount)
	}
}

func TestLateFeeRaisesSellerLedgerOwed(t *testing.T) {
	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(overdueCommission("comm-1", 45))
		f.sellerRepo = newFakeSellerRepo(&domain.SellerAccount{
			SellerID:            "seller-1",
			TotalCommissionOwed: 10_000,
		})
	})
	ctx := context.Background()

	if _, err := f.uc.Run(ctx, TaskLateFeeProcessing, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Owed follows the commission total, so it stays the sum of open amounts.
	account, _ := f.sellerRepo.GetSellerAccount(ctx, "seller-1")
	if account.TotalCommissionOwed != 10_225 {
		t.Fatalf("ledger owed = %d, want 10225", account.TotalCommissionOwed)
	}
	if got := f.commissionRepo.get("comm-1").CommissionAmount; got != 10_225 {
		t.Fatalf("commission total = %d, want 10225", got)
	}

	// The idempotent rerun must not move the ledger again.
	if _, err := f.uc.Run(ctx, TaskLateFeeProcessing, false); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	account, _ = f.sellerRepo.GetSellerAccount(ctx, "seller-1")
	if account.TotalCommissionOwed != 10_225 {
		t.Fatalf("ledger owed after rerun = %d, want 10225", account.TotalCommissionOwed)
	}
}

func TestLateFeeCapStopsGrowth(t *testing.T) {
	commission := overdueCommission("comm-1", 400)
	commission.LateFee = domain.LateFee{FeeAmount: 1_000, DaysOverdue: 350, AssessedAt: testNow.AddDate(0, 0, -50)}
	commission.CommissionAmount = 11_000

	f := newFixture(func(f *fixture) {
		f.commissionRepo = newFakeCommissionRepo(commission)
	})

	if _, err := f.uc.Run(context.Background(), TaskLateFeeProcessing, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	stored := f.commissionRepo.get("comm-1")
	if stored.LateFee.FeeAmount != 1_000 {
		t.Fatalf("fee = %d, want capped 1000", stored.LateFee.FeeAmount)
	}
	if stored.CommissionAmount != 11_000 {
		t.Fatalf("total = %d, want 11000", stored.CommissionAmount)
	}
}
