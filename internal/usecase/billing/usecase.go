package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/marktline/billing-service/internal/config"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
)

// TaskType is the closed set of billing automation tasks. The registry in
// NewDefaultBillingUsecase is the single dispatch point; an unregistered
// type is a validation error, not a silent no-op.
type TaskType string

const (
	TaskCommissionInvoicing   TaskType = "commission_invoicing"
	TaskSubscriptionRenewals  TaskType = "subscription_renewals"
	TaskFailedPaymentRecovery TaskType = "failed_payment_recovery"
	TaskLeadCreditTopup       TaskType = "lead_credit_topup"
	TaskLateFeeProcessing     TaskType = "late_fee_processing"
	TaskAll                   TaskType = "all"
)

// taskOrder fixes the fan-out sequence of TaskAll.
var taskOrder = []TaskType{
	TaskCommissionInvoicing,
	TaskSubscriptionRenewals,
	TaskFailedPaymentRecovery,
	TaskLeadCreditTopup,
	TaskLateFeeProcessing,
}

// ItemDetail captures one work unit's outcome. Failures land here instead of
// aborting the run.
type ItemDetail struct {
	ItemID   string `json:"item_id"`
	SellerID string `json:"seller_id,omitempty"`
	Action   string `json:"action"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type TaskReport struct {
	TaskType       TaskType     `json:"task_type"`
	TotalFound     int          `json:"total_found"`
	TotalProcessed int          `json:"total_processed"`
	TotalErrors    int          `json:"total_errors"`
	Details        []ItemDetail `json:"details"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
}

type BillingUsecase interface {
	Run(ctx context.Context, taskType TaskType, executeNow bool) ([]*TaskReport, error)
	Overview(ctx context.Context) (*OverviewOutput, error)
	SellerSnapshot(ctx context.Context, sellerID string) (*SnapshotOutput, error)
}

type EventPublisher interface {
	PublishBillingEvent(event kafka.BillingEvent) error
}

// RunLock serializes scheduler runs per task across triggers.
type RunLock interface {
	Acquire(ctx context.Context, taskName string) (bool, error)
	Release(ctx context.Context, taskName string) error
}

type taskHandler func(ctx context.Context, executeNow bool) *TaskReport

type DefaultBillingUsecase struct {
	CommissionRepo   domain.CommissionRepository
	SubscriptionRepo domain.SubscriptionRepository
	PaymentRepo      domain.PaymentRepository
	SellerRepo       domain.SellerAccountRepository
	Gateway          domain.PaymentGateway
	Publisher        EventPublisher
	Metrics          *metrics.BillingMetrics
	Lock             RunLock
	Cfg              *config.Billing

	registry      map[TaskType]taskHandler
	invoiceNumber func() string
	now           func() time.Time
}

func NewDefaultBillingUsecase(
	commissionRepo domain.CommissionRepository,
	subscriptionRepo domain.SubscriptionRepository,
	paymentRepo domain.PaymentRepository,
	sellerRepo domain.SellerAccountRepository,
	gateway domain.PaymentGateway,
	publisher EventPublisher,
	billingMetrics *metrics.BillingMetrics,
	lock RunLock,
	cfg *config.Billing) *DefaultBillingUsecase {

	numberGen, err := nanoid.CustomASCII("0123456789ABCDEFGHJKMNPQRSTVWXYZ", 12)
	if err != nil {
		panic(fmt.Sprintf("invoice number generator: %v", err))
	}

	uc := &DefaultBillingUsecase{
		CommissionRepo:   commissionRepo,
		SubscriptionRepo: subscriptionRepo,
		PaymentRepo:      paymentRepo,
		SellerRepo:       sellerRepo,
		Gateway:          gateway,
		Publisher:        publisher,
		Metrics:          billingMetrics,
		Lock:             lock,
		Cfg:              cfg,
		invoiceNumber:    func() string { return "INV-" + numberGen() },
		now:              time.Now,
	}

	uc.registry = map[TaskType]taskHandler{
		TaskCommissionInvoicing:   uc.runCommissionInvoicing,
		TaskSubscriptionRenewals:  uc.runSubscriptionRenewals,
		TaskFailedPaymentRecovery: uc.runFailedPaymentRecovery,
		TaskLeadCreditTopup:       uc.runLeadCreditTopup,
		TaskLateFeeProcessing:     uc.runLateFeeProcessing,
	}

	return uc
}

// Run executes one task, or every task in order for TaskAll. Each task is
// guarded by a run lock so an overlapping trigger cannot double-process.
func (uc *DefaultBillingUsecase) Run(ctx context.Context, taskType TaskType, executeNow bool) ([]*TaskReport, error) {
	if taskType == TaskAll {
		reports := make([]*TaskReport, 0, len(taskOrder))
		for _, t := range taskOrder {
			report, err := uc.runOne(ctx, t, executeNow)
			if err != nil {
				return reports, err
			}
			reports = append(reports, report)
		}
		return reports, nil
	}

	report, err := uc.runOne(ctx, taskType, executeNow)
	if err != nil {
		return nil, err
	}
	return []*TaskReport{report}, nil
}

func (uc *DefaultBillingUsecase) runOne(ctx context.Context, taskType TaskType, executeNow bool) (*TaskReport, error) {
	handler, ok := uc.registry[taskType]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown task type %q", taskType))
	}

	if uc.Lock != nil {
		acquired, err := uc.Lock.Acquire(ctx, string(taskType))
		if err != nil {
			return nil, domain.NewPersistenceError("failed to acquire task lock", err)
		}
		if !acquired {
			return nil, domain.NewStateConflictError(fmt.Sprintf("task %s is already running", taskType))
		}
		defer func() {
			if err := uc.Lock.Release(context.WithoutCancel(ctx), string(taskType)); err != nil {
				slog.Error("failed to release task lock", "task", taskType, "error", err.Error())
			}
		}()
	}

	start := uc.now()
	report := handler(ctx, executeNow)
	report.TaskType = taskType
	report.StartedAt = start
	report.FinishedAt = uc.now()

	if uc.Metrics != nil {
		uc.Metrics.TaskRunsTotal.WithLabelValues(string(taskType)).Inc()
		uc.Metrics.TaskItemsProcessed.WithLabelValues(string(taskType)).Add(float64(report.TotalProcessed))
		uc.Metrics.TaskItemErrors.WithLabelValues(string(taskType)).Add(float64(report.TotalErrors))
		uc.Metrics.TaskDuration.WithLabelValues(string(taskType)).Observe(report.FinishedAt.Sub(start).Seconds())
	}

	slog.Info("billing task finished",
		"task", taskType,
		"found", report.TotalFound,
		"processed", report.TotalProcessed,
		"errors", report.TotalErrors)

	return report, nil
}

func (uc *DefaultBillingUsecase) publish(event kafka.BillingEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishBillingEvent(event); err != nil {
		slog.Error("failed to publish billing event", "event_type", event.EventType, "error", err.Error())
	}
}

// tally folds worker pool details into report counters.
func tally(report *TaskReport, details []ItemDetail) {
	report.Details = details
	for _, d := range details {
		if d.Success {
			report.TotalProcessed++
		} else {
			report.TotalErrors++
		}
	}
}
