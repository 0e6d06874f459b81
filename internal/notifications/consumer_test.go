package notifications

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

func newTestConsumer(repo *stubNotifRepo) *Consumer {
	return &Consumer{
		repo: repo,
		logg: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestHandleSellRequestTransitionNotifiesSeller(t *testing.T) {
	repo := &stubNotifRepo{}
	consumer := newTestConsumer(repo)

	sellerID := uuid.New()
	data := mustJSON(t, map[string]any{
		"request_id": uuid.New(),
		"seller_id":  sellerID,
		"to_status":  "APPRAISED",
	})

	if err := consumer.handleEvent(context.Background(), enums.EventSellRequestTransitioned, data); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	note := repo.created[0]
	if note.UserID != sellerID {
		t.Fatalf("expected notification for seller %s, got %s", sellerID, note.UserID)
	}
	if note.Type != enums.NotificationSellRequestUpdate {
		t.Fatalf("unexpected notification type %s", note.Type)
	}
}

func TestHandleLotClosedNotifiesWinnerOnly(t *testing.T) {
	repo := &stubNotifRepo{}
	consumer := newTestConsumer(repo)

	winnerID := uuid.New()
	amount := decimal.RequireFromString("2500.00")
	sold := mustJSON(t, map[string]any{
		"item_id":    uuid.New(),
		"session_id": uuid.New(),
		"status":     "SOLD",
		"winner_id":  winnerID,
		"amount":     amount,
	})
	unsold := mustJSON(t, map[string]any{
		"item_id":    uuid.New(),
		"session_id": uuid.New(),
		"status":     "UNSOLD",
	})

	if err := consumer.handleEvent(context.Background(), enums.EventLotClosed, sold); err != nil {
		t.Fatalf("handleEvent sold: %v", err)
	}
	if err := consumer.handleEvent(context.Background(), enums.EventLotClosed, unsold); err != nil {
		t.Fatalf("handleEvent unsold: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected only the sold lot to notify, got %d notifications", len(repo.created))
	}
	note := repo.created[0]
	if note.UserID != winnerID {
		t.Fatalf("expected winner %s, got %s", winnerID, note.UserID)
	}
	if note.Type != enums.NotificationAuctionWon {
		t.Fatalf("unexpected notification type %s", note.Type)
	}
}

func TestHandlePaymentAndPayoutEvents(t *testing.T) {
	repo := &stubNotifRepo{}
	consumer := newTestConsumer(repo)

	buyerID := uuid.New()
	sellerID := uuid.New()
	payment := mustJSON(t, map[string]any{
		"payment_id": uuid.New(),
		"buyer_id":   buyerID,
		"amount":     decimal.RequireFromString("2200.00"),
	})
	payout := mustJSON(t, map[string]any{
		"payout_id": uuid.New(),
		"seller_id": sellerID,
		"amount":    decimal.RequireFromString("1900.00"),
	})

	if err := consumer.handleEvent(context.Background(), enums.EventPaymentRecorded, payment); err != nil {
		t.Fatalf("handleEvent payment: %v", err)
	}
	if err := consumer.handleEvent(context.Background(), enums.EventPayoutRecorded, payout); err != nil {
		t.Fatalf("handleEvent payout: %v", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(repo.created))
	}
	if repo.created[0].UserID != buyerID || repo.created[0].Type != enums.NotificationPaymentRequired {
		t.Fatalf("unexpected payment notification: %+v", repo.created[0])
	}
	if repo.created[1].UserID != sellerID || repo.created[1].Type != enums.NotificationPaymentConfirmed {
		t.Fatalf("unexpected payout notification: %+v", repo.created[1])
	}
}

func TestHandledEventFilters(t *testing.T) {
	if handledEvent(enums.EventBidPlaced) {
		t.Fatal("bid events should not fan out notifications")
	}
	if !handledEvent(enums.EventPaymentRecorded) {
		t.Fatal("payment events must be handled")
	}
}
