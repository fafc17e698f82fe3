package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVolumeSplit(t *testing.T) {
	testCases := []struct {
		name     string
		flags    int32
		volume   int64
		wantBuy  int64
		wantSell int64
	}{
		{
			name:    "executed buy",
			flags:   FlagLast | FlagVolume | FlagBuy,
			volume:  100,
			wantBuy: 100,
		},
		{
			name:     "executed sell",
			flags:    FlagLast | FlagVolume | FlagSell,
			volume:   50,
			wantSell: 50,
		},
		{
			name:     "executed both sides",
			flags:    FlagLast | FlagBuy | FlagSell,
			volume:   30,
			wantBuy:  30,
			wantSell: 30,
		},
		{
			name:   "quote only ignores side bits",
			flags:  FlagBid | FlagAsk | FlagBuy,
			volume: 100,
		},
		{
			name:   "executed trade without side bits",
			flags:  FlagLast,
			volume: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buy, sell := VolumeSplit(tc.flags, tc.volume)
			assert.Equal(t, tc.wantBuy, buy)
			assert.Equal(t, tc.wantSell, sell)
		})
	}
}

func TestNew(t *testing.T) {
	eventTime := time.Date(2025, 6, 1, 14, 30, 0, 123456789, time.UTC)

	tk := New("TSLA", 420.5, 420.7, 0.2, 100, FlagLast|FlagBuy, eventTime)

	assert.Equal(t, "TSLA", tk.Symbol)
	assert.Equal(t, int64(100), tk.BuyVolume)
	assert.Zero(t, tk.SellVolume)
	assert.True(t, tk.IsTrade())
	// event time is carried at microsecond precision
	assert.Equal(t, eventTime.Truncate(time.Microsecond), tk.Time)
}

func TestIsTrade(t *testing.T) {
	assert.False(t, New("VIX", 15.1, 15.2, 0.1, 0, FlagBid|FlagAsk, time.Now()).IsTrade())
	assert.True(t, New("VIX", 15.1, 15.2, 0.1, 10, FlagLast, time.Now()).IsTrade())
}
