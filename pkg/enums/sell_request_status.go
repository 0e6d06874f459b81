package enums

import "fmt"

// SellRequestStatus tracks a consignment request through appraisal and approval.
type SellRequestStatus string

const (
	SellRequestStatusSubmitted         SellRequestStatus = "SUBMITTED"
	SellRequestStatusPrelimAppraised   SellRequestStatus = "PRELIM_APPRAISED"
	SellRequestStatusReceived          SellRequestStatus = "RECEIVED"
	SellRequestStatusFinalAppraised    SellRequestStatus = "FINAL_APPRAISED"
	SellRequestStatusManagerApproved   SellRequestStatus = "MANAGER_APPROVED"
	SellRequestStatusSellerAccepted    SellRequestStatus = "SELLER_ACCEPTED"
	SellRequestStatusAssignedToSession SellRequestStatus = "ASSIGNED_TO_SESSION"
	SellRequestStatusRejected          SellRequestStatus = "REJECTED"
)

var validSellRequestStatuses = []SellRequestStatus{
	SellRequestStatusSubmitted,
	SellRequestStatusPrelimAppraised,
	SellRequestStatusReceived,
	SellRequestStatusFinalAppraised,
	SellRequestStatusManagerApproved,
	SellRequestStatusSellerAccepted,
	SellRequestStatusAssignedToSession,
	SellRequestStatusRejected,
}

// String implements fmt.Stringer.
func (s SellRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellRequestStatus.
func (s SellRequestStatus) IsValid() bool {
	for _, candidate := range validSellRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
// REJECTED requests stay rejected; there is no reopen path.
func (s SellRequestStatus) IsTerminal() bool {
	return s == SellRequestStatusRejected || s == SellRequestStatusAssignedToSession
}

// ParseSellRequestStatus converts raw input into a SellRequestStatus.
func ParseSellRequestStatus(value string) (SellRequestStatus, error) {
	for _, candidate := range validSellRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sell request status %q", value)
}
