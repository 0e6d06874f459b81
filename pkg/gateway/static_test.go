package gateway

import (
	"context"
	"testing"

	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
)

func TestStaticGatewayDeterministicTransactionIDs(t *testing.T) {
	g := NewStaticGateway()
	ctx := context.Background()

	params := ChargeParams{
		AmountCents:    550000,
		Currency:       "USD",
		ReferenceID:    "lot-12",
		IdempotencyKey: "settle-lot-12",
	}

	first, err := g.ProcessPayment(ctx, params)
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	second, err := g.ProcessPayment(ctx, params)
	if err != nil {
		t.Fatalf("process payment replay: %v", err)
	}
	if first.TransactionID != second.TransactionID {
		t.Fatalf("replayed charge produced different txn ids: %q vs %q", first.TransactionID, second.TransactionID)
	}
	if len(g.Calls()) != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", len(g.Calls()))
	}
}

func TestStaticGatewayDeclineMarker(t *testing.T) {
	g := NewStaticGateway()
	ctx := context.Background()

	_, err := g.ProcessPayment(ctx, ChargeParams{ReferenceID: "lot-DECLINE-7"})
	if err == nil {
		t.Fatal("expected decline")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if _, err := g.ProcessRefund(ctx, RefundParams{PaymentID: "pay-1", Reason: "DECLINE"}); err == nil {
		t.Fatal("expected refund rejection")
	}
	if _, err := g.ProcessPayout(ctx, PayoutParams{ReferenceID: "ok"}); err != nil {
		t.Fatalf("payout should succeed: %v", err)
	}
}
