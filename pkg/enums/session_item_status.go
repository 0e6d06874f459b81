package enums

import "fmt"

// SessionItemStatus tracks a lot inside an auction session.
type SessionItemStatus string

const (
	SessionItemStatusPending   SessionItemStatus = "PENDING"
	SessionItemStatusActive    SessionItemStatus = "ACTIVE"
	SessionItemStatusSold      SessionItemStatus = "SOLD"
	SessionItemStatusUnsold    SessionItemStatus = "UNSOLD"
	SessionItemStatusWithdrawn SessionItemStatus = "WITHDRAWN"
)

var validSessionItemStatuses = []SessionItemStatus{
	SessionItemStatusPending,
	SessionItemStatusActive,
	SessionItemStatusSold,
	SessionItemStatusUnsold,
	SessionItemStatusWithdrawn,
}

func (s SessionItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionItemStatus.
func (s SessionItemStatus) IsValid() bool {
	for _, candidate := range validSessionItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionItemStatus converts raw input into a SessionItemStatus.
func ParseSessionItemStatus(value string) (SessionItemStatus, error) {
	for _, candidate := range validSessionItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session item status %q", value)
}
