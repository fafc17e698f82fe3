package tick

import (
	"time"
)

// Feed flag bits, MT5 convention.
const (
	FlagBid    int32 = 2
	FlagAsk    int32 = 4
	FlagLast   int32 = 8
	FlagVolume int32 = 16
	FlagBuy    int32 = 32
	FlagSell   int32 = 64
)

// Tick represents a single normalized bid/ask observation for a symbol.
// Immutable once constructed.
type Tick struct {
	Symbol     string
	Bid        float64
	Ask        float64
	Spread     float64
	Volume     int64
	BuyVolume  int64
	SellVolume int64
	Flags      int32
	Time       time.Time // microsecond precision
}

// VolumeSplit attributes volume to the buy or sell side based on the flag
// bits. Only executed-trade ticks (FlagLast set) carry volume; quote-only
// ticks report zero on both sides regardless of the side bits.
func VolumeSplit(flags int32, volume int64) (buyVolume, sellVolume int64) {
	if flags&FlagLast == 0 {
		return 0, 0
	}
	if flags&FlagBuy != 0 {
		buyVolume = volume
	}
	if flags&FlagSell != 0 {
		sellVolume = volume
	}
	return buyVolume, sellVolume
}

// New constructs a Tick, deriving the buy/sell volume split from the flags.
func New(symbol string, bid, ask, spread float64, volume int64, flags int32, eventTime time.Time) Tick {
	buyVolume, sellVolume := VolumeSplit(flags, volume)
	return Tick{
		Symbol:     symbol,
		Bid:        bid,
		Ask:        ask,
		Spread:     spread,
		Volume:     volume,
		BuyVolume:  buyVolume,
		SellVolume: sellVolume,
		Flags:      flags,
		Time:       eventTime.Truncate(time.Microsecond),
	}
}

// IsTrade reports whether this tick represents an executed trade.
func (t Tick) IsTrade() bool {
	return t.Flags&FlagLast != 0
}
