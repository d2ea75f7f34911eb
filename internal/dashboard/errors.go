package dashboard

import "errors"

var (
	ErrInvalidPeriod = errors.New("invalid revenue period")
	// ErrStaleBatch is returned by Load when a newer batch superseded it
	ErrStaleBatch = errors.New("dashboard batch superseded by a newer request")
)

// MsgLoadFailed is the single notification raised when a batch fails
const MsgLoadFailed = "Failed to load dashboard data"

// MsgSummaryFailed is shown inline when the financial summary cannot load
const MsgSummaryFailed = "Failed to load financial summary"
