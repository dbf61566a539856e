package background

import (
	"context"
	"log"
	"time"

	"github.com/marktline/billing-service/internal/config"
	billingUsecase "github.com/marktline/billing-service/internal/usecase/billing"
	payoutUsecase "github.com/marktline/billing-service/internal/usecase/payout"
)

type BackgroundTasks struct {
	BillingUsecase billingUsecase.BillingUsecase
	PayoutUsecase  payoutUsecase.PayoutUsecase
	Cfg            *config.Billing
}

func NewBackgroundTasks(billingUC billingUsecase.BillingUsecase, payoutUC payoutUsecase.PayoutUsecase, cfg *config.Billing) *BackgroundTasks {
	return &BackgroundTasks{
		BillingUsecase: billingUC,
		PayoutUsecase:  payoutUC,
		Cfg:            cfg,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startScheduledBilling(ctx)
	go bt.startScheduledPayouts(ctx)
}

// startScheduledBilling runs the full task fan-out on the configured
// interval. The task lock inside the usecase keeps a manual trigger and a
// scheduled run from overlapping.
func (bt *BackgroundTasks) startScheduledBilling(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(bt.Cfg.SchedulerIntervalMin) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.BillingUsecase.Run(ctx, billingUsecase.TaskAll, false); err != nil {
				log.Printf("Scheduled billing run error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startScheduledPayouts(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(bt.Cfg.PayoutIntervalMin) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.PayoutUsecase.RunPayouts(ctx); err != nil {
				log.Printf("Scheduled payout run error: %v\n", err)
			}
		}
	}
}
