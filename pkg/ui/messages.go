package ui

import (
	"time"

	"github.com/defiscout/yieldscout/business/yield/domain"
)

// Message types for TUI updates

// PoolsMsg is sent when a scan refresh completes.
type PoolsMsg struct {
	Pools []domain.Pool
	At    time.Time
}

// ErrorMsg is sent when a refresh fails.
type ErrorMsg struct {
	Error error
}

// TickMsg triggers the next scheduled refresh.
type TickMsg struct{}
