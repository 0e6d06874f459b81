package gateway

import "context"

// Result carries the gateway-side reference for a completed operation.
type Result struct {
	TransactionID string
}

// Gateway abstracts the payment provider used during settlement. Calls are
// made outside database transactions and row locks; a failure marks the
// payment or payout FAILED but never rolls back the auction outcome.
type Gateway interface {
	ProcessPayment(ctx context.Context, params ChargeParams) (*Result, error)
	ProcessRefund(ctx context.Context, params RefundParams) (*Result, error)
	ProcessPayout(ctx context.Context, params PayoutParams) (*Result, error)
}

// ChargeParams describes a buyer charge for a settled lot.
type ChargeParams struct {
	AmountCents    int64
	Currency       string
	SourceID       string
	CustomerID     string
	ReferenceID    string
	Note           string
	IdempotencyKey string
}

// RefundParams describes a full or partial reversal of an earlier charge.
type RefundParams struct {
	PaymentID      string
	AmountCents    int64
	Currency       string
	Reason         string
	IdempotencyKey string
}

// PayoutParams describes a seller disbursement for a settled lot.
type PayoutParams struct {
	AmountCents    int64
	Currency       string
	SellerID       string
	ReferenceID    string
	IdempotencyKey string
}
