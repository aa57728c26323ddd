package enums

import "fmt"

// TradeStatus maps to the status column on trades.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusFailed    TradeStatus = "failed"
)

var validTradeStatuses = []TradeStatus{
	TradeStatusPending,
	TradeStatusCompleted,
	TradeStatusFailed,
}

// String implements fmt.Stringer.
func (s TradeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known trade status.
func (s TradeStatus) IsValid() bool {
	for _, candidate := range validTradeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTradeStatus converts raw input into TradeStatus.
func ParseTradeStatus(value string) (TradeStatus, error) {
	for _, candidate := range validTradeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade status %q", value)
}
