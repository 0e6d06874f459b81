package enums

// RefundStatus tracks a refund issued against a completed payment.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "PENDING"
	RefundStatusCompleted RefundStatus = "COMPLETED"
	RefundStatusFailed    RefundStatus = "FAILED"
)

func (s RefundStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RefundStatus.
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusPending, RefundStatusCompleted, RefundStatusFailed:
		return true
	}
	return false
}
