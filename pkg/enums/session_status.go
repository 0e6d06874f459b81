package enums

import "fmt"

// SessionStatus tracks an auction session through its lifecycle.
// Only OPEN sessions accept bids.
type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "DRAFT"
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusOpen      SessionStatus = "OPEN"
	SessionStatusPaused    SessionStatus = "PAUSED"
	SessionStatusClosed    SessionStatus = "CLOSED"
	SessionStatusSettled   SessionStatus = "SETTLED"
	SessionStatusCanceled  SessionStatus = "CANCELED"
)

var validSessionStatuses = []SessionStatus{
	SessionStatusDraft,
	SessionStatusScheduled,
	SessionStatusOpen,
	SessionStatusPaused,
	SessionStatusClosed,
	SessionStatusSettled,
	SessionStatusCanceled,
}

func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionStatus.
func (s SessionStatus) IsValid() bool {
	for _, candidate := range validSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanCancel reports whether the session may still be canceled.
// CANCELED is reachable from any state before CLOSED.
func (s SessionStatus) CanCancel() bool {
	switch s {
	case SessionStatusDraft, SessionStatusScheduled, SessionStatusOpen, SessionStatusPaused:
		return true
	}
	return false
}

// ParseSessionStatus converts raw input into a SessionStatus.
func ParseSessionStatus(value string) (SessionStatus, error) {
	for _, candidate := range validSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session status %q", value)
}
