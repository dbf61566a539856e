package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/marktline/billing-service/internal/config"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
)

const (
	reasonBankVerificationMissing = "bank_verification_missing"
	reasonBelowMinimum            = "below_minimum"
)

// BatchResult is one seller's outcome in a payout run.
type BatchResult struct {
	BatchID       string `json:"batch_id"`
	SellerID      string `json:"seller_id"`
	Commissions   int    `json:"commissions"`
	TotalAmount   int64  `json:"total_amount"`
	Outcome       string `json:"outcome"`
	FailureReason string `json:"failure_reason,omitempty"`
	TransferID    string `json:"transfer_id,omitempty"`
}

type RunResult struct {
	SellersFound  int           `json:"sellers_found"`
	BatchesPaid   int           `json:"batches_paid"`
	BatchesFailed int           `json:"batches_failed"`
	TotalSettled  int64         `json:"total_settled"`
	Batches       []BatchResult `json:"batches"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
}

type PayoutUsecase interface {
	RunPayouts(ctx context.Context) (*RunResult, error)
	GetPayoutBatchesBySellerID(ctx context.Context, sellerID string, limit int64) ([]*domain.PayoutBatch, error)
}

type EventPublisher interface {
	PublishBillingEvent(event kafka.BillingEvent) error
}

type DefaultPayoutUsecase struct {
	CommissionRepo domain.CommissionRepository
	SellerRepo     domain.SellerAccountRepository
	BatchRepo      domain.PayoutBatchRepository
	Gateway        domain.PaymentGateway
	Publisher      EventPublisher
	Metrics        *metrics.BillingMetrics
	Cfg            *config.Billing

	batchNumber func() string
	now         func() time.Time
}

func NewDefaultPayoutUsecase(
	commissionRepo domain.CommissionRepository,
	sellerRepo domain.SellerAccountRepository,
	batchRepo domain.PayoutBatchRepository,
	gateway domain.PaymentGateway,
	publisher EventPublisher,
	billingMetrics *metrics.BillingMetrics,
	cfg *config.Billing) *DefaultPayoutUsecase {

	numberGen, err := nanoid.CustomASCII("0123456789ABCDEFGHJKMNPQRSTVWXYZ", 12)
	if err != nil {
		panic(fmt.Sprintf("batch number generator: %v", err))
	}

	return &DefaultPayoutUsecase{
		CommissionRepo: commissionRepo,
		SellerRepo:     sellerRepo,
		BatchRepo:      batchRepo,
		Gateway:        gateway,
		Publisher:      publisher,
		Metrics:        billingMetrics,
		Cfg:            cfg,
		batchNumber:    func() string { return "PB-" + numberGen() },
		now:            time.Now,
	}
}

// RunPayouts groups every payable commission by seller and settles one batch
// per seller. Unverified sellers and sub-minimum totals are recorded as
// failed batches without touching the commissions; a failed transfer likewise
// leaves the members PENDING for the next run. Only a successful transfer
// flips members to PAID, inside one transaction with the ledger move.
func (uc *DefaultPayoutUsecase) RunPayouts(ctx context.Context) (*RunResult, error) {
	result := &RunResult{StartedAt: uc.now(), Batches: []BatchResult{}}

	payable, err := uc.CommissionRepo.FindPayable(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to find payable commissions", err)
	}

	bySeller := make(map[string][]*domain.Commission)
	for _, commission := range payable {
		bySeller[commission.SellerID] = append(bySeller[commission.SellerID], commission)
	}
	result.SellersFound = len(bySeller)

	sellerIDs := make([]string, 0, len(bySeller))
	for sellerID := range bySeller {
		sellerIDs = append(sellerIDs, sellerID)
	}
	sort.Strings(sellerIDs)

	workers := uc.Cfg.TaskWorkers
	if workers < 1 {
		workers = 1
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, workers)
	)
	for _, sellerID := range sellerIDs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(sellerID string, members []*domain.Commission) {
			defer wg.Done()
			defer func() { <-sem }()

			batch := uc.settleSeller(ctx, sellerID, members)

			mu.Lock()
			result.Batches = append(result.Batches, batch)
			if batch.Outcome == string(domain.PayoutSuccess) {
				result.BatchesPaid++
				result.TotalSettled += batch.TotalAmount
			} else {
				result.BatchesFailed++
			}
			mu.Unlock()
		}(sellerID, bySeller[sellerID])
	}
	wg.Wait()

	result.FinishedAt = uc.now()
	slog.Info("payout run finished",
		"sellers", result.SellersFound,
		"paid", result.BatchesPaid,
		"failed", result.BatchesFailed,
		"settled", result.TotalSettled)
	return result, nil
}

func (uc *DefaultPayoutUsecase) settleSeller(ctx context.Context, sellerID string, members []*domain.Commission) BatchResult {
	var total int64
	ids := make([]string, len(members))
	for i, member := range members {
		ids[i] = member.ID
		total += member.CommissionAmount
	}

	batch := &domain.PayoutBatch{
		ID:            uuid.New().String(),
		BatchNumber:   uc.batchNumber(),
		SellerID:      sellerID,
		CommissionIDs: ids,
		TotalAmount:   total,
		CreatedAt:     uc.now(),
	}

	account, err := uc.SellerRepo.GetSellerAccount(ctx, sellerID)
	if err != nil {
		return uc.recordFailure(ctx, batch, err.Error())
	}
	if !account.BankVerified {
		return uc.recordFailure(ctx, batch, reasonBankVerificationMissing)
	}
	if total < uc.Cfg.MinPayoutAmount {
		return uc.recordFailure(ctx, batch, reasonBelowMinimum)
	}

	transferID, err := uc.createTransfer(ctx, account.GatewayAccountRef, total)
	if err != nil {
		return uc.recordFailure(ctx, batch, err.Error())
	}

	batch.Outcome = domain.PayoutSuccess
	batch.TransferID = transferID
	if err := uc.CommissionRepo.SettleBatch(ctx, batch, members, uc.now()); err != nil {
		// The transfer went out but settlement did not commit; surface loudly
		// so the transfer can be reconciled by hand.
		slog.Error("payout settlement failed after transfer",
			"seller_id", sellerID,
			"transfer_id", transferID,
			"error", err.Error())
		return uc.recordFailure(ctx, batch, "settlement_failed: "+err.Error())
	}

	if uc.Metrics != nil {
		uc.Metrics.PayoutBatchesTotal.WithLabelValues(string(domain.PayoutSuccess)).Inc()
		uc.Metrics.PayoutAmountTotal.WithLabelValues().Add(float64(total))
		uc.Metrics.CommissionsPaidTotal.WithLabelValues().Add(float64(len(members)))
	}
	uc.publish(kafka.BillingEvent{
		EventType:    kafka.EventPayoutSettled,
		SellerID:     sellerID,
		EntityID:     batch.ID,
		Amount:       total,
		Status:       string(domain.PayoutSuccess),
		OccurredAtMs: uc.now().UnixMilli(),
	})

	return BatchResult{
		BatchID:     batch.ID,
		SellerID:    sellerID,
		Commissions: len(members),
		TotalAmount: total,
		Outcome:     string(domain.PayoutSuccess),
		TransferID:  transferID,
	}
}

// createTransfer retries the gateway transfer on rate limiting only.
func (uc *DefaultPayoutUsecase) createTransfer(ctx context.Context, destinationRef string, amount int64) (string, error) {
	attempts := uc.Cfg.GatewayRetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		transferID string
		err        error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := 500 * time.Millisecond << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		transferID, err = uc.Gateway.CreateTransfer(ctx, destinationRef, amount)
		if err == nil {
			return transferID, nil
		}
		if !errors.Is(err, domain.ErrGatewayRateLimited) {
			return "", err
		}
	}
	return "", err
}

func (uc *DefaultPayoutUsecase) recordFailure(ctx context.Context, batch *domain.PayoutBatch, reason string) BatchResult {
	batch.Outcome = domain.PayoutFailed
	batch.FailureReason = reason
	if err := uc.BatchRepo.CreatePayoutBatch(ctx, batch); err != nil {
		slog.Error("failed to record failed payout batch",
			"seller_id", batch.SellerID, "error", err.Error())
	}
	if uc.Metrics != nil {
		uc.Metrics.PayoutBatchesTotal.WithLabelValues(string(domain.PayoutFailed)).Inc()
	}
	return BatchResult{
		BatchID:       batch.ID,
		SellerID:      batch.SellerID,
		Commissions:   len(batch.CommissionIDs),
		TotalAmount:   batch.TotalAmount,
		Outcome:       string(domain.PayoutFailed),
		FailureReason: reason,
	}
}

func (uc *DefaultPayoutUsecase) publish(event kafka.BillingEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishBillingEvent(event); err != nil {
		slog.Error("failed to publish billing event", "event_type", event.EventType, "error", err.Error())
	}
}

func (uc *DefaultPayoutUsecase) GetPayoutBatchesBySellerID(ctx context.Context, sellerID string, limit int64) ([]*domain.PayoutBatch, error) {
	if sellerID == "" {
		return nil, domain.NewValidationError("seller id is required")
	}
	return uc.BatchRepo.GetPayoutBatchesBySellerID(ctx, sellerID, limit)
}
