package enums

// OutboxEventType enumerates domain events staged in the transactional outbox.
type OutboxEventType string

const (
	EventSellRequestSubmitted    OutboxEventType = "sell_request.submitted"
	EventSellRequestTransitioned OutboxEventType = "sell_request.transitioned"
	EventSellRequestRejected     OutboxEventType = "sell_request.rejected"
	EventSessionScheduled        OutboxEventType = "session.scheduled"
	EventSessionOpened           OutboxEventType = "session.opened"
	EventSessionClosed           OutboxEventType = "session.closed"
	EventSessionSettled          OutboxEventType = "session.settled"
	EventBidPlaced               OutboxEventType = "bid.placed"
	EventLotClosed               OutboxEventType = "lot.closed"
	EventPaymentRecorded         OutboxEventType = "payment.recorded"
	EventPaymentResolved         OutboxEventType = "payment.resolved"
	EventPayoutRecorded          OutboxEventType = "payout.recorded"
)

// OutboxDLQErrorReason classifies terminal outbox publish failures.
type OutboxDLQErrorReason string

const (
	DLQReasonMaxAttempts   OutboxDLQErrorReason = "max_attempts_exceeded"
	DLQReasonDecodeFailure OutboxDLQErrorReason = "payload_decode_failure"
	DLQReasonPublishError  OutboxDLQErrorReason = "publish_error"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateSellRequest OutboxAggregateType = "sell_request"
	AggregateSession     OutboxAggregateType = "auction_session"
	AggregateSessionItem OutboxAggregateType = "session_item"
	AggregatePayment     OutboxAggregateType = "payment"
	AggregatePayout      OutboxAggregateType = "payout"
)
