package core

// Lifecycle tuning knobs. Thresholds live here so classification logic
// stays free of magic numbers.
const (
	// ExpirationOffsetDays is the fixed distance between a payment date
	// and its expiration date.
	ExpirationOffsetDays = 30

	// DueSoonWindowDays is the inclusive upper bound of the dueSoon window.
	DueSoonWindowDays = 5
)

// RiskStatus describes how close a client's current payment is to expiring.
type RiskStatus string

const (
	StatusOverdue RiskStatus = "overdue"
	StatusDueSoon RiskStatus = "dueSoon"
	StatusCurrent RiskStatus = "current"
	StatusNone    RiskStatus = "none"
)

// IsValid reports whether s is one of the known statuses.
func (s RiskStatus) IsValid() bool {
	switch s {
	case StatusOverdue, StatusDueSoon, StatusCurrent, StatusNone:
		return true
	default:
		return false
	}
}

// Classify maps days remaining until expiration to a risk status.
// The boundary is inclusive: exactly DueSoonWindowDays days left is still
// dueSoon. Clients without payments never reach here; they are StatusNone.
func Classify(days int) RiskStatus {
	switch {
	case days < 0:
		return StatusOverdue
	case days <= DueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusCurrent
	}
}
