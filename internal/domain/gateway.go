package domain

import (
	"context"
	"time"
)

type IntentStatus string

const (
	IntentSucceeded         IntentStatus = "SUCCEEDED"
	IntentFailed            IntentStatus = "FAILED"
	IntentRequiresNewMethod IntentStatus = "REQUIRES_NEW_METHOD"
	IntentProcessing        IntentStatus = "PROCESSING"
)

type GatewaySubscription struct {
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// PaymentGateway is the external settlement capability. The engine consumes
// it opaquely; transaction processing stays on the provider side.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, customerRef string, amount int64, dueInDays int, metadata map[string]string) (string, error)
	FinalizeAndSend(ctx context.Context, invoiceID string) error
	RetrievePaymentIntent(ctx context.Context, intentRef string) (IntentStatus, error)
	CreateTransfer(ctx context.Context, destinationRef string, amount int64) (string, error)
	RetrieveSubscription(ctx context.Context, subRef string) (*GatewaySubscription, error)
	ChargeCustomer(ctx context.Context, customerRef string, amount int64, description string) (string, error)
}
