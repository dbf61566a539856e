package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BillingMetrics holds every prometheus vector the engine records.
type BillingMetrics struct {
	LeadsCreatedTotal   prometheus.CounterVec
	LeadsPurchasedTotal prometheus.CounterVec
	LeadPurchaseAmount  prometheus.CounterVec
	LeadsConvertedTotal prometheus.CounterVec

	CommissionsCreatedTotal  prometheus.CounterVec
	CommissionsInvoicedTotal prometheus.CounterVec
	CommissionsPaidTotal     prometheus.CounterVec
	CommissionAmountTotal    prometheus.CounterVec
	LateFeesAssessedTotal    prometheus.CounterVec

	TaskRunsTotal      prometheus.CounterVec
	TaskItemsProcessed prometheus.CounterVec
	TaskItemErrors     prometheus.CounterVec
	TaskDuration       prometheus.HistogramVec

	PayoutBatchesTotal prometheus.CounterVec
	PayoutAmountTotal  prometheus.CounterVec

	GatewayCallDuration prometheus.HistogramVec
	GatewayErrorsTotal  prometheus.CounterVec
}

func NewBillingMetrics() *BillingMetrics {
	return &BillingMetrics{
		LeadsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_created_total",
				Help: "Leads created, by verification tier",
			},
			[]string{"verification_tier"},
		),
		LeadsPurchasedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_purchased_total",
				Help: "Leads purchased, by payment method",
			},
			[]string{"payment_method"},
		),
		LeadPurchaseAmount: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_purchase_amount_total",
				Help: "Total lead purchase revenue in minor units",
			},
			[]string{"payment_method"},
		),
		LeadsConvertedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_converted_total",
				Help: "Leads converted into sales",
			},
			[]string{},
		),
		CommissionsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_created_total",
				Help: "Commissions created, by plan tier",
			},
			[]string{"plan_tier"},
		),
		CommissionsInvoicedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_invoiced_total",
				Help: "Commissions moved to invoiced",
			},
			[]string{},
		),
		CommissionsPaidTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_paid_total",
				Help: "Commissions settled through payouts",
			},
			[]string{},
		),
		CommissionAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_amount_total",
				Help: "Commission amounts created, minor units, by plan tier",
			},
			[]string{"plan_tier"},
		),
		LateFeesAssessedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "late_fees_assessed_total",
				Help: "Late fee amount assessed, minor units",
			},
			[]string{},
		),
		TaskRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_task_runs_total",
				Help: "Billing automation task invocations",
			},
			[]string{"task_type"},
		),
		TaskItemsProcessed: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_task_items_processed_total",
				Help: "Items processed per task",
			},
			[]string{"task_type"},
		),
		TaskItemErrors: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_task_item_errors_total",
				Help: "Per-item failures captured in task reports",
			},
			[]string{"task_type"},
		),
		TaskDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billing_task_duration_seconds",
				Help:    "Wall time of a task run",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"task_type"},
		),
		PayoutBatchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payout_batches_total",
				Help: "Payout batches, by outcome",
			},
			[]string{"outcome"},
		),
		PayoutAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payout_amount_total",
				Help: "Settled payout amount in minor units",
			},
			[]string{},
		),
		GatewayCallDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_call_duration_seconds",
				Help:    "Latency of payment gateway calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Payment gateway errors, by operation",
			},
			[]string{"operation"},
		),
	}
}

// ObserveGateway wraps a gateway call with the duration histogram and error
// counter.
func (m *BillingMetrics) ObserveGateway(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.GatewayCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
	}
	return err
}
