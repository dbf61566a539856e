package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// BillingEvent is the notification trigger emitted on money-moving
// transitions. Downstream consumers own the actual delivery.
type BillingEvent struct {
	EventType    string `json:"event_type"`
	SellerID     string `json:"seller_id"`
	EntityID     string `json:"entity_id"`
	Amount       int64  `json:"amount,omitempty"`
	Status       string `json:"status,omitempty"`
	OccurredAtMs int64  `json:"occurred_at_ms"`
}

const (
	EventLeadPurchased       = "lead.purchased"
	EventCommissionCreated   = "commission.created"
	EventCommissionInvoiced  = "commission.invoiced"
	EventCommissionPaid      = "commission.paid"
	EventPayoutSettled       = "payout.settled"
	EventPaymentActionNeeded = "payment.action_needed"
	EventCreditsToppedUp     = "credits.topped_up"
)

type BillingPublisher struct {
	writer *kafka.Writer
}

func NewBillingPublisher(brokers []string, topic string) *BillingPublisher {
	return &BillingPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishBillingEvent keys by seller so one seller's events stay ordered.
func (p *BillingPublisher) PublishBillingEvent(event BillingEvent) error {
	if event.OccurredAtMs == 0 {
		event.OccurredAtMs = time.Now().UnixMilli()
	}
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SellerID),
		Value: v,
		Time:  time.Now(),
	})
}
