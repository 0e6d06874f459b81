package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
)

// declineMarker in a reference or reason forces a deterministic decline.
const declineMarker = "DECLINE"

// StaticGateway is the deterministic in-process gateway used in dev and in
// tests. Transaction IDs are derived from the idempotency key so a replayed
// call yields the same reference, and a reference containing the decline
// marker always fails the same way.
type StaticGateway struct {
	mu    sync.Mutex
	calls []string
}

func NewStaticGateway() *StaticGateway {
	return &StaticGateway{}
}

func (s *StaticGateway) ProcessPayment(ctx context.Context, params ChargeParams) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.record("payment", params.ReferenceID)
	if strings.Contains(params.ReferenceID, declineMarker) || strings.Contains(params.Note, declineMarker) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "card declined")
	}
	return &Result{TransactionID: deriveTxnID("pay", params.IdempotencyKey, params.ReferenceID)}, nil
}

func (s *StaticGateway) ProcessRefund(ctx context.Context, params RefundParams) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.record("refund", params.PaymentID)
	if strings.Contains(params.Reason, declineMarker) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "refund rejected")
	}
	return &Result{TransactionID: deriveTxnID("ref", params.IdempotencyKey, params.PaymentID)}, nil
}

func (s *StaticGateway) ProcessPayout(ctx context.Context, params PayoutParams) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.record("payout", params.ReferenceID)
	if strings.Contains(params.ReferenceID, declineMarker) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payout rejected")
	}
	return &Result{TransactionID: deriveTxnID("out", params.IdempotencyKey, params.ReferenceID)}, nil
}

// Calls returns the operations seen so far, for test assertions.
func (s *StaticGateway) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *StaticGateway) record(op, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("%s:%s", op, ref))
}

func deriveTxnID(prefix, idempotencyKey, reference string) string {
	sum := sha256.Sum256([]byte(idempotencyKey + "|" + reference))
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(sum[:8]))
}
