package domain

import "strings"

// Status is the closed set of transaction states a terminal can report.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	// StatusUnknown is every wire value outside the understood set.
	StatusUnknown Status = "unknown"
)

// ParseStatus maps a wire status string to a Status. This is the only place
// unrecognised values are folded into StatusUnknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusProcessing:
		return StatusProcessing
	case StatusCompleted:
		return StatusCompleted
	case StatusFailed:
		return StatusFailed
	case StatusCancelled, "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// InFlight reports whether the terminal is still working on the transaction.
func (s Status) InFlight() bool {
	return s == StatusPending || s == StatusProcessing
}

// Final reports whether the terminal has reached a definite outcome.
func (s Status) Final() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}
