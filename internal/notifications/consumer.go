package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox/idempotency"
)

const auctionNotificationConsumer = "auction-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and turns them into per-user notifications.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if !handledEvent(eventType) {
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, auctionNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, auctionNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func handledEvent(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventSellRequestTransitioned,
		enums.EventSellRequestRejected,
		enums.EventLotClosed,
		enums.EventPaymentRecorded,
		enums.EventPayoutRecorded:
		return true
	}
	return false
}

func (c *Consumer) handleEvent(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage) error {
	switch eventType {
	case enums.EventSellRequestTransitioned:
		var payload sellRequestTransitionedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse sell request payload: %w", err)
		}
		return c.notifySellRequestTransition(ctx, payload)
	case enums.EventSellRequestRejected:
		var payload sellRequestRejectedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse rejection payload: %w", err)
		}
		return c.notifySellRequestRejection(ctx, payload)
	case enums.EventLotClosed:
		var payload lotClosedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse lot closed payload: %w", err)
		}
		return c.notifyLotClosed(ctx, payload)
	case enums.EventPaymentRecorded:
		var payload paymentRecordedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse payment payload: %w", err)
		}
		return c.notifyPaymentRecorded(ctx, payload)
	case enums.EventPayoutRecorded:
		var payload payoutRecordedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse payout payload: %w", err)
		}
		return c.notifyPayoutRecorded(ctx, payload)
	}
	return nil
}

func (c *Consumer) notifySellRequestTransition(ctx context.Context, payload sellRequestTransitionedPayload) error {
	if payload.SellerID == uuid.Nil {
		return fmt.Errorf("seller id missing")
	}
	link := fmt.Sprintf("/sell-requests/%s", payload.RequestID)
	return c.repo.Create(ctx, &models.Notification{
		UserID:  payload.SellerID,
		Type:    enums.NotificationSellRequestUpdate,
		Title:   "Consignment update",
		Message: fmt.Sprintf("Your sell request moved to %s.", payload.ToStatus),
		Link:    stringPtr(link),
	})
}

func (c *Consumer) notifySellRequestRejection(ctx context.Context, payload sellRequestRejectedPayload) error {
	if payload.SellerID == uuid.Nil {
		return fmt.Errorf("seller id missing")
	}
	message := "Your sell request was declined."
	if payload.Reason != "" {
		message = fmt.Sprintf("Your sell request was declined: %s", payload.Reason)
	}
	link := fmt.Sprintf("/sell-requests/%s", payload.RequestID)
	return c.repo.Create(ctx, &models.Notification{
		UserID:  payload.SellerID,
		Type:    enums.NotificationSellRequestUpdate,
		Title:   "Consignment declined",
		Message: message,
		Link:    stringPtr(link),
	})
}

func (c *Consumer) notifyLotClosed(ctx context.Context, payload lotClosedPayload) error {
	// Only a sale produces a direct per-user notification; unsold lots have
	// no single recipient.
	if payload.Status != enums.SessionItemStatusSold || payload.WinnerID == nil {
		return nil
	}
	message := "You won the lot."
	if payload.Amount != nil {
		message = fmt.Sprintf("You won the lot at %s.", payload.Amount.StringFixed(2))
	}
	link := fmt.Sprintf("/sessions/%s/items/%s", payload.SessionID, payload.ItemID)
	return c.repo.Create(ctx, &models.Notification{
		UserID:  *payload.WinnerID,
		Type:    enums.NotificationAuctionWon,
		Title:   "Winning bid",
		Message: message,
		Link:    stringPtr(link),
	})
}

func (c *Consumer) notifyPaymentRecorded(ctx context.Context, payload paymentRecordedPayload) error {
	if payload.BuyerID == uuid.Nil {
		return fmt.Errorf("buyer id missing")
	}
	link := fmt.Sprintf("/payments/%s", payload.PaymentID)
	return c.repo.Create(ctx, &models.Notification{
		UserID:  payload.BuyerID,
		Type:    enums.NotificationPaymentRequired,
		Title:   "Payment due",
		Message: fmt.Sprintf("Payment of %s is due for your winning lot.", payload.Amount.StringFixed(2)),
		Link:    stringPtr(link),
	})
}

func (c *Consumer) notifyPayoutRecorded(ctx context.Context, payload payoutRecordedPayload) error {
	if payload.SellerID == uuid.Nil {
		return fmt.Errorf("seller id missing")
	}
	link := fmt.Sprintf("/payouts/%s", payload.PayoutID)
	return c.repo.Create(ctx, &models.Notification{
		UserID:  payload.SellerID,
		Type:    enums.NotificationPaymentConfirmed,
		Title:   "Payout on the way",
		Message: fmt.Sprintf("A payout of %s was booked for your sold lot.", payload.Amount.StringFixed(2)),
		Link:    stringPtr(link),
	})
}

func stringPtr(value string) *string {
	return &value
}

type sellRequestTransitionedPayload struct {
	RequestID uuid.UUID               `json:"request_id"`
	SellerID  uuid.UUID               `json:"seller_id"`
	ToStatus  enums.SellRequestStatus `json:"to_status"`
}

type sellRequestRejectedPayload struct {
	RequestID uuid.UUID `json:"request_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Reason    string    `json:"reason"`
}

type lotClosedPayload struct {
	ItemID    uuid.UUID               `json:"item_id"`
	SessionID uuid.UUID               `json:"session_id"`
	Status    enums.SessionItemStatus `json:"status"`
	WinnerID  *uuid.UUID              `json:"winner_id"`
	Amount    *decimal.Decimal        `json:"amount"`
}

type paymentRecordedPayload struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type payoutRecordedPayload struct {
	PayoutID uuid.UUID       `json:"payout_id"`
	SellerID uuid.UUID       `json:"seller_id"`
	Amount   decimal.Decimal `json:"amount"`
}
