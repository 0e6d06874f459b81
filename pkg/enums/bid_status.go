package enums

import "fmt"

// BidStatus tracks a bid's standing within a lot.
// At most one bid per lot carries WINNING at any time.
type BidStatus string

const (
	BidStatusValid   BidStatus = "VALID"
	BidStatusInvalid BidStatus = "INVALID"
	BidStatusOutbid  BidStatus = "OUTBID"
	BidStatusWinning BidStatus = "WINNING"
)

var validBidStatuses = []BidStatus{
	BidStatusValid,
	BidStatusInvalid,
	BidStatusOutbid,
	BidStatusWinning,
}

func (s BidStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BidStatus.
func (s BidStatus) IsValid() bool {
	for _, candidate := range validBidStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBidStatus converts raw input into a BidStatus.
func ParseBidStatus(value string) (BidStatus, error) {
	for _, candidate := range validBidStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bid status %q", value)
}
