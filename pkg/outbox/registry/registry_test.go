package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emeraldgavel/auctionhouse-backend/internal/settlement"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
)

func testRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{DomainTopic: "auction-domain"})
	require.NoError(t, err)
	return reg
}

func envelopeFor(t *testing.T, payload interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	require.NoError(t, err)
	return raw
}

func TestNewEventRegistryRequiresDomainTopic(t *testing.T) {
	_, err := NewEventRegistry(config.PubSubConfig{})
	require.Error(t, err)
}

func TestRegistryCoversAllEventTypes(t *testing.T) {
	reg := testRegistry(t)
	expected := []enums.OutboxEventType{
		enums.EventSellRequestSubmitted,
		enums.EventSellRequestTransitioned,
		enums.EventSellRequestRejected,
		enums.EventSessionScheduled,
		enums.EventSessionOpened,
		enums.EventSessionClosed,
		enums.EventSessionSettled,
		enums.EventBidPlaced,
		enums.EventLotClosed,
		enums.EventPaymentRecorded,
		enums.EventPaymentResolved,
		enums.EventPayoutRecorded,
	}
	for _, eventType := range expected {
		desc, ok := reg.entries[eventType]
		require.True(t, ok, "missing descriptor for %s", eventType)
		assert.Equal(t, "auction-domain", desc.Topic)
		assert.NotNil(t, desc.PayloadFactory)
	}
	assert.Len(t, reg.entries, len(expected))
}

func TestResolveDecodesTypedPayload(t *testing.T) {
	reg := testRegistry(t)
	resolved, err := reg.Resolve(models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventPaymentRecorded,
		AggregateType: enums.AggregatePayment,
		AggregateID:   uuid.New(),
		Payload:       envelopeFor(t, settlement.PaymentRecordedEvent{}),
	})
	require.NoError(t, err)
	assert.IsType(t, &settlement.PaymentRecordedEvent{}, resolved.Payload)
	assert.NotEmpty(t, resolved.Envelope.EventID)
}

func TestResolveRejectsUnknownEventType(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Resolve(models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.OutboxEventType("price.changed"),
		AggregateType: enums.AggregatePayment,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
	})
	var nonRetry NonRetryableError
	require.True(t, errors.As(err, &nonRetry))
}

func TestResolveRejectsAggregateMismatch(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Resolve(models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventBidPlaced,
		AggregateType: enums.AggregatePayment,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
	})
	var nonRetry NonRetryableError
	require.True(t, errors.As(err, &nonRetry))
}

func TestResolveRejectsMissingAggregateID(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Resolve(models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventSessionOpened,
		AggregateType: enums.AggregateSession,
		Payload:       json.RawMessage(`{}`),
	})
	var nonRetry NonRetryableError
	require.True(t, errors.As(err, &nonRetry))
}

func TestResolveRejectsEmptyEnvelopeData(t *testing.T) {
	reg := testRegistry(t)
	raw, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`null`),
	})
	require.NoError(t, err)

	_, err = reg.Resolve(models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventSessionOpened,
		AggregateType: enums.AggregateSession,
		AggregateID:   uuid.New(),
		Payload:       raw,
	})
	var nonRetry NonRetryableError
	require.True(t, errors.As(err, &nonRetry))
}
