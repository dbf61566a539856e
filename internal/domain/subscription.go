package domain

import (
	"context"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

type Subscription struct {
	ID               string
	SellerID         string
	GatewaySubRef    string
	PlanTier         PlanTier
	Status           SubscriptionStatus
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type SubscriptionRepository interface {
	GetSubscriptionBySellerID(ctx context.Context, sellerID string) (*Subscription, error)
	FindSubscriptionsForRenewal(ctx context.Context, dueBefore time.Time) ([]*Subscription, error)
	UpdateSubscription(ctx context.Context, subID string, status SubscriptionStatus, periodEnd time.Time) error
}
