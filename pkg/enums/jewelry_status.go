package enums

import "fmt"

// JewelryStatus tracks a consigned jewelry item across its lifecycle.
type JewelryStatus string

const (
	JewelryStatusPendingAppraisal JewelryStatus = "PENDING_APPRAISAL"
	JewelryStatusAppraised        JewelryStatus = "APPRAISED"
	JewelryStatusApproved         JewelryStatus = "APPROVED"
	JewelryStatusInAuction        JewelryStatus = "IN_AUCTION"
	JewelryStatusSold             JewelryStatus = "SOLD"
	JewelryStatusUnsold           JewelryStatus = "UNSOLD"
	JewelryStatusReturned         JewelryStatus = "RETURNED"
	JewelryStatusWithdrawn        JewelryStatus = "WITHDRAWN"
)

var validJewelryStatuses = []JewelryStatus{
	JewelryStatusPendingAppraisal,
	JewelryStatusAppraised,
	JewelryStatusApproved,
	JewelryStatusInAuction,
	JewelryStatusSold,
	JewelryStatusUnsold,
	JewelryStatusReturned,
	JewelryStatusWithdrawn,
}

func (s JewelryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known JewelryStatus.
func (s JewelryStatus) IsValid() bool {
	for _, candidate := range validJewelryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJewelryStatus converts raw input into a JewelryStatus.
func ParseJewelryStatus(value string) (JewelryStatus, error) {
	for _, candidate := range validJewelryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid jewelry status %q", value)
}
