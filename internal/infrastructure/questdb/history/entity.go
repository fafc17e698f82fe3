package history

import (
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
)

// Record is one archived tick. The symbol is the partition, not a column:
// each symbol has its own history table.
type Record struct {
	Time       time.Time
	Bid        float64
	Ask        float64
	Spread     float64
	Volume     int64
	BuyVolume  int64
	SellVolume int64
	Flags      int32
}

// FromTick builds the history record for a tick.
func FromTick(t tick.Tick) *Record {
	return &Record{
		Time:       t.Time,
		Bid:        t.Bid,
		Ask:        t.Ask,
		Spread:     t.Spread,
		Volume:     t.Volume,
		BuyVolume:  t.BuyVolume,
		SellVolume: t.SellVolume,
		Flags:      t.Flags,
	}
}

// Filter represents the filter criteria for history records.
type Filter struct {
	From      *time.Time
	To        *time.Time
	Limit     int
	Ascending bool
}
