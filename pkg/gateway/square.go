package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	sqclient "github.com/square/square-go-sdk/client"
	sqcore "github.com/square/square-go-sdk/core"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"
)

var (
	errAccessTokenRequired = errors.New("square access token is required")
	errInvalidSquareEnv    = fmt.Errorf("square environment must be %q or %q", sandboxEnv, productionEnv)
	errLoggerRequired      = errors.New("gateway logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://connect.squareupsandbox.com",
	productionEnv: "https://connect.squareup.com",
}

// SquareGateway charges buyers and refunds payments through Square with
// centralized auth, logging, idempotency, and error mapping. Seller payouts
// are disbursed by the back office outside the API, so ProcessPayout only
// records a reference.
type SquareGateway struct {
	sdk         *sqclient.Client
	environment string
	locationID  string
	logger      *logger.Logger
}

// NewSquareGateway initializes the Square wrapper and validates credentials.
func NewSquareGateway(ctx context.Context, cfg config.SquareConfig, logg *logger.Logger) (*SquareGateway, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	sdk := sqclient.NewClient(
		sqoption.WithBaseURL(baseURLs[env]),
		sqoption.WithToken(accessToken),
	)

	g := &SquareGateway{
		sdk:         sdk,
		environment: env,
		locationID:  strings.TrimSpace(cfg.LocationID),
		logger:      logg,
	}

	logg.Info(ctx, "square gateway initialized")
	return g, nil
}

// Environment reports the normalized Square environment.
func (g *SquareGateway) Environment() string {
	if g == nil {
		return ""
	}
	return g.environment
}

// NewIdempotencyKey returns a unique key for gateway operations.
func (g *SquareGateway) NewIdempotencyKey(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "ah"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

func (g *SquareGateway) ProcessPayment(ctx context.Context, params ChargeParams) (*Result, error) {
	req := params.toSquareRequest(g.locationID, g.ensureIdempotencyKey("payment.create", params.IdempotencyKey))
	g.log(ctx, "request", "create_payment", map[string]any{
		"reference_id": params.ReferenceID,
		"customer_id":  params.CustomerID,
		"amount":       params.AmountCents,
	})

	resp, err := g.sdk.Payments.Create(ctx, req)
	if err != nil {
		g.log(ctx, "error", "create_payment", map[string]any{"error": err.Error()})
		return nil, g.mapSquareError(err, "create payment")
	}

	payment := resp.GetPayment()
	g.log(ctx, "response", "create_payment", map[string]any{
		"payment_id": stringValue(payment.GetID()),
		"status":     stringValue(payment.GetStatus()),
	})
	return &Result{TransactionID: stringValue(payment.GetID())}, nil
}

func (g *SquareGateway) ProcessRefund(ctx context.Context, params RefundParams) (*Result, error) {
	req := params.toSquareRequest(g.ensureIdempotencyKey("refund.create", params.IdempotencyKey))
	g.log(ctx, "request", "refund_payment", map[string]any{
		"payment_id": params.PaymentID,
		"amount":     params.AmountCents,
	})

	resp, err := g.sdk.Refunds.RefundPayment(ctx, req)
	if err != nil {
		g.log(ctx, "error", "refund_payment", map[string]any{"error": err.Error()})
		return nil, g.mapSquareError(err, "refund payment")
	}

	refund := resp.GetRefund()
	g.log(ctx, "response", "refund_payment", map[string]any{
		"refund_id": refund.GetID(),
	})
	return &Result{TransactionID: refund.GetID()}, nil
}

// ProcessPayout records a disbursement reference; the transfer itself runs
// through the back office's banking rails.
func (g *SquareGateway) ProcessPayout(ctx context.Context, params PayoutParams) (*Result, error) {
	txnID := g.ensureIdempotencyKey("payout", params.IdempotencyKey)
	g.log(ctx, "response", "record_payout", map[string]any{
		"reference_id": params.ReferenceID,
		"amount":       params.AmountCents,
	})
	return &Result{TransactionID: txnID}, nil
}

func (g *SquareGateway) ensureIdempotencyKey(prefix, provided string) string {
	if strings.TrimSpace(provided) != "" {
		return provided
	}
	return g.NewIdempotencyKey(prefix)
}

func (g *SquareGateway) log(ctx context.Context, phase, op string, fields map[string]any) {
	if g == nil || g.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = g.redact(k, v)
	}
	ctx = g.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		g.logger.Error(ctx, fmt.Sprintf("square %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		g.logger.Info(ctx, fmt.Sprintf("square %s", phase))
	}
}

func (g *SquareGateway) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "nonce", "token", "cvv", "cvc", "secret", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (g *SquareGateway) mapSquareError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *sqcore.APIError
	if errors.As(err, &apiErr) {
		code := domainCodeForStatus(apiErr.StatusCode)
		for _, sqErr := range g.extractSquareErrors(apiErr) {
			if sqErr == nil {
				continue
			}
			if sqErr.Code == sq.ErrorCodeIdempotencyKeyReused {
				code = pkgerrors.CodeIdempotency
				break
			}
			if sqErr.Category == sq.ErrorCategoryAuthenticationError {
				code = pkgerrors.CodeUnauthorized
				break
			}
		}
		return pkgerrors.Wrap(code, err, fmt.Sprintf("square %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("square %s failed", op))
}

func (g *SquareGateway) extractSquareErrors(apiErr *sqcore.APIError) []*sq.Error {
	if apiErr == nil {
		return nil
	}
	inner := apiErr.Unwrap()
	if inner == nil {
		return nil
	}
	raw := strings.TrimSpace(inner.Error())
	if raw == "" {
		return nil
	}
	var payload struct {
		Errors []*sq.Error `json:"errors"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	return payload.Errors
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidSquareEnv
	}
}
