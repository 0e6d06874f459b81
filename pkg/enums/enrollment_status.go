package enums

import "fmt"

// EnrollmentStatus tracks a member's registration to bid in a session.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "PENDING"
	EnrollmentStatusApproved EnrollmentStatus = "APPROVED"
	EnrollmentStatusRejected EnrollmentStatus = "REJECTED"
	EnrollmentStatusCanceled EnrollmentStatus = "CANCELED"
)

var validEnrollmentStatuses = []EnrollmentStatus{
	EnrollmentStatusPending,
	EnrollmentStatusApproved,
	EnrollmentStatusRejected,
	EnrollmentStatusCanceled,
}

func (s EnrollmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EnrollmentStatus.
func (s EnrollmentStatus) IsValid() bool {
	for _, candidate := range validEnrollmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEnrollmentStatus converts raw input into an EnrollmentStatus.
func ParseEnrollmentStatus(value string) (EnrollmentStatus, error) {
	for _, candidate := range validEnrollmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enrollment status %q", value)
}
