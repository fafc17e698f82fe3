package position

import (
	"time"
)

// Status is the lifecycle state of a position.
type Status string

const (
	// StatusOpen marks a live position.
	StatusOpen Status = "OPEN"
	// StatusClosed marks a finished position. Terminal.
	StatusClosed Status = "CLOSED"
	// StatusNeedsReconciliation marks a position whose broker close exhausted
	// its retry budget and requires manual intervention.
	StatusNeedsReconciliation Status = "NEEDS_RECONCILIATION"
)

// CloseReason records which exit level a position crossed.
type CloseReason string

const (
	// ReasonTakeProfit means the bid crossed the take-profit level.
	ReasonTakeProfit CloseReason = "TP"
	// ReasonStopLoss means the bid crossed the stop-loss level.
	ReasonStopLoss CloseReason = "SL"
)

// Position is one trade lifecycle record. A symbol has at most one OPEN
// position at any time, enforced by a partial unique index on
// (symbol) WHERE status = 'OPEN'.
type Position struct {
	ID          int64
	Symbol      string
	EntryTime   time.Time
	EntryPrice  float64
	Size        float64
	StopLoss    float64
	TakeProfit  float64
	Status      Status
	ExitTime    *time.Time
	ExitPrice   *float64
	RealizedPnL *float64
}

// Filter represents the filter criteria for positions.
type Filter struct {
	Status Status
	Symbol string
	Limit  int
}
