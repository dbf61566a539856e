package lead

import (
	"context"
	"log/slog"
	"time"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
)

type LeadUsecase interface {
	CreateLead(ctx context.Context, input *leaddto.CreateLeadInput) (*leaddto.LeadOutput, error)
	PurchaseLead(ctx context.Context, input *leaddto.PurchaseLeadInput) (*leaddto.LeadOutput, error)
	MarkContacted(ctx context.Context, input *leaddto.TransitionInput) error
	MarkConverted(ctx context.Context, input *leaddto.TransitionInput) error
	MarkNotInterested(ctx context.Context, input *leaddto.TransitionInput) error
	InvalidateLead(ctx context.Context, input *leaddto.TransitionInput) error
	GetLeadByID(ctx context.Context, leadID, callerID string) (*leaddto.LeadOutput, error)
	GetLeadsBySellerID(ctx context.Context, input *leaddto.ListLeadsInput) ([]*leaddto.LeadOutput, int64, error)
}

// SaleConfirmer is the commission side of a lead conversion.
type SaleConfirmer interface {
	ConfirmSale(ctx context.Context, listingID string, soldAt time.Time) (*domain.Commission, error)
}

type EventPublisher interface {
	PublishBillingEvent(event kafka.BillingEvent) error
}

type DefaultLeadUsecase struct {
	LeadRepo    domain.LeadRepository
	ListingRepo domain.ListingRepository
	SellerRepo  domain.SellerAccountRepository
	PaymentRepo domain.PaymentRepository
	Gateway     domain.PaymentGateway
	Sales       SaleConfirmer
	Publisher   EventPublisher
	Metrics     *metrics.BillingMetrics

	now func() time.Time
}

func NewDefaultLeadUsecase(
	leadRepo domain.LeadRepository,
	listingRepo domain.ListingRepository,
	sellerRepo domain.SellerAccountRepository,
	paymentRepo domain.PaymentRepository,
	gateway domain.PaymentGateway,
	sales SaleConfirmer,
	publisher EventPublisher,
	billingMetrics *metrics.BillingMetrics) *DefaultLeadUsecase {

	return &DefaultLeadUsecase{
		LeadRepo:    leadRepo,
		ListingRepo: listingRepo,
		SellerRepo:  sellerRepo,
		PaymentRepo: paymentRepo,
		Gateway:     gateway,
		Sales:       sales,
		Publisher:   publisher,
		Metrics:     billingMetrics,
		now:         time.Now,
	}
}

func (uc *DefaultLeadUsecase) clock() time.Time {
	if uc.now != nil {
		return uc.now()
	}
	return time.Now()
}

func (uc *DefaultLeadUsecase) publish(event kafka.BillingEvent) {
	if uc.Publisher == nil {
		return
	}
	go func() {
		if err := uc.Publisher.PublishBillingEvent(event); err != nil {
			slog.Error("failed to publish billing event", "event_type", event.EventType, "error", err.Error())
		}
	}()
}
