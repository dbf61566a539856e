package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentSucceeded         PaymentStatus = "SUCCEEDED"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRequiresNewMethod PaymentStatus = "REQUIRES_NEW_METHOD"
)

type PaymentPurpose string

const (
	PurposeLeadPurchase PaymentPurpose = "LEAD_PURCHASE"
	PurposeCreditTopup  PaymentPurpose = "CREDIT_TOPUP"
	PurposeSubscription PaymentPurpose = "SUBSCRIPTION"
)

type Payment struct {
	ID               string
	SellerID         string
	GatewayIntentRef string
	Amount           int64
	Purpose          PaymentPurpose
	Status           PaymentStatus
	FailedAt         *time.Time
	NotifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	FindFailedPayments(ctx context.Context) ([]*Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status PaymentStatus) error
	MarkPaymentNotified(ctx context.Context, paymentID string, at time.Time) error
}
