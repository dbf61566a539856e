package domain

import (
	"context"
	"time"
)

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "PENDING"
	CommissionStatusInvoiced  CommissionStatus = "INVOICED"
	CommissionStatusPaid      CommissionStatus = "PAID"
	CommissionStatusDisputed  CommissionStatus = "DISPUTED"
	CommissionStatusCancelled CommissionStatus = "CANCELLED"
)

func (s CommissionStatus) Terminal() bool {
	return s == CommissionStatusPaid || s == CommissionStatusCancelled
}

// LateFee is the audit breakdown of an accrued late fee. It is kept apart
// from the commission's original amount so the base is never compounded.
type LateFee struct {
	FeeAmount   int64
	DaysOverdue int
	AssessedAt  time.Time
}

// Commission is the fee owed on a confirmed sale. CommissionRate is a
// snapshot of the seller's plan rate at sale time and is never recomputed.
// CommissionAmount = OriginalAmount + LateFee.FeeAmount at all times.
type Commission struct {
	ID               string
	ListingID        string
	SellerID         string
	SalePrice        int64
	CommissionRate   float64
	OriginalAmount   int64
	CommissionAmount int64
	Status           CommissionStatus
	InvoiceID        string
	InvoiceNumber    string
	DueDate          time.Time
	PaidDate         *time.Time
	LateFee          LateFee
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SaleConfirmation carries everything the single sale-settlement transaction
// touches: the listing flip, the commission insert and the ledger increment.
type SaleConfirmation struct {
	Commission *Commission
	ListingID  string
	SoldPrice  int64
	SoldAt     time.Time
}

type CommissionRepository interface {
	// CreateForSale runs the listing ACTIVE -> SOLD flip, the commission
	// insert and the seller-ledger owed increment in one transaction.
	CreateForSale(ctx context.Context, sale *SaleConfirmation) error

	GetCommissionByID(ctx context.Context, commissionID string) (*Commission, error)
	GetCommissionsBySellerID(ctx context.Context, sellerID string, statuses []CommissionStatus) ([]*Commission, error)

	// FindInvoiceable returns PENDING commissions of at least minAmount due
	// before the given horizon.
	FindInvoiceable(ctx context.Context, minAmount int64, dueBefore time.Time) ([]*Commission, error)
	FindOverdueInvoiced(ctx context.Context, asOf time.Time) ([]*Commission, error)
	FindPayable(ctx context.Context) ([]*Commission, error)

	// ClaimInvoice records the gateway invoice refs on a still-PENDING
	// commission, guarded by version. The claim lands before the invoice is
	// finalized so an interrupted run can never raise a second invoice.
	ClaimInvoice(ctx context.Context, commissionID string, version int64, invoiceID, invoiceNumber string) (bool, error)

	// MarkInvoiced moves PENDING -> INVOICED guarded by the version field.
	MarkInvoiced(ctx context.Context, commissionID string, version int64) (bool, error)

	// ApplyLateFee stores the fee breakdown and the derived total, guarded by
	// version, and raises the seller ledger's owed total by the fee delta in
	// the same transaction. OriginalAmount is never touched.
	ApplyLateFee(ctx context.Context, commissionID string, version int64, fee LateFee, newTotal int64) (bool, error)

	// MarkStatusAdmin handles the admin-only DISPUTED/CANCELLED transitions.
	MarkStatusAdmin(ctx context.Context, commissionID string, version int64, newStatus CommissionStatus) (bool, error)

	// SettleBatch marks every member commission PAID, moves the batch total
	// from owed to paid on the seller ledger and records the batch — all in
	// one transaction. A version conflict on any member rolls everything back.
	SettleBatch(ctx context.Context, batch *PayoutBatch, members []*Commission, paidAt time.Time) error

	PendingTotalBySeller(ctx context.Context, sellerID string) (int64, int64, error)
}
