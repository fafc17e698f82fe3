package snapshot

import (
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
)

// Snapshot is the single most recent tick per symbol, one row per symbol.
type Snapshot struct {
	Symbol      string
	Bid         float64
	Ask         float64
	Spread      float64
	Volume      int64
	BuyVolume   int64
	SellVolume  int64
	Flags       int32
	LastUpdated time.Time
}

// FromTick builds the snapshot row for a tick.
func FromTick(t tick.Tick) *Snapshot {
	return &Snapshot{
		Symbol:      t.Symbol,
		Bid:         t.Bid,
		Ask:         t.Ask,
		Spread:      t.Spread,
		Volume:      t.Volume,
		BuyVolume:   t.BuyVolume,
		SellVolume:  t.SellVolume,
		Flags:       t.Flags,
		LastUpdated: t.Time,
	}
}

// Age returns how old the snapshot is relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.LastUpdated)
}
