package domain

import (
	"context"
	"time"
)

type PayoutOutcome string

const (
	PayoutSuccess PayoutOutcome = "SUCCESS"
	PayoutFailed  PayoutOutcome = "FAILED"
)

// PayoutBatch is one seller's settlement attempt in a scheduled run. Failed
// batches are persisted with a reason so skipped sellers stay auditable;
// their member commissions remain untouched and retry on the next run.
type PayoutBatch struct {
	ID            string
	BatchNumber   string
	SellerID      string
	CommissionIDs []string
	TotalAmount   int64
	Outcome       PayoutOutcome
	FailureReason string
	TransferID    string
	CreatedAt     time.Time
}

type PayoutBatchRepository interface {
	CreatePayoutBatch(ctx context.Context, batch *PayoutBatch) error
	GetPayoutBatchesBySellerID(ctx context.Context, sellerID string, limit int64) ([]*PayoutBatch, error)
}
