package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	loggerMock "github.com/xyVar/KLDAFinTech/pkg/logger/mock"
)

func testRegistry(t *testing.T) *symbol.Registry {
	t.Helper()
	registry, err := symbol.NewRegistry([]string{
		"TSLA.US=TSLA:equity",
		"NatGas=NATGAS:commodity",
	})
	assert.NoError(t, err)
	return registry
}

func validRaw() RawTick {
	return RawTick{
		Symbol:    "TSLA.US",
		Bid:       420.5,
		Ask:       420.7,
		Spread:    0.2,
		Volume:    100,
		Flags:     tick.FlagLast | tick.FlagBuy,
		Timestamp: "2025-06-04 14:30:00.123456",
	}
}

func TestUsecase_Submit(t *testing.T) {
	testCases := []struct {
		name     string
		raw      func() RawTick
		assertFn func(t *testing.T, u *Usecase, buf *Buffer, err error)
	}{
		{
			name: "accepted and normalized",
			raw:  validRaw,
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.NoError(t, err)

				ticks := buf.DrainAll()
				assert.Len(t, ticks, 1)
				assert.Equal(t, "TSLA", ticks[0].Symbol)
				assert.Equal(t, int64(100), ticks[0].BuyVolume)
				assert.Equal(t,
					time.Date(2025, 6, 4, 14, 30, 0, 123456000, time.UTC),
					ticks[0].Time)

				assert.Equal(t, uint64(1), u.Stats().Received)
			},
		},
		{
			name: "unknown symbol rejected",
			raw: func() RawTick {
				raw := validRaw()
				raw.Symbol = "DOGE.X"
				return raw
			},
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.True(t, errors.IsCode(err, errors.ValidationError))
				assert.Zero(t, buf.Len())
				assert.Equal(t, uint64(1), u.Stats().Rejected)
			},
		},
		{
			name: "missing symbol rejected",
			raw: func() RawTick {
				raw := validRaw()
				raw.Symbol = ""
				return raw
			},
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.True(t, errors.IsCode(err, errors.ValidationError))
				assert.Zero(t, buf.Len())
			},
		},
		{
			name: "non-positive quote rejected",
			raw: func() RawTick {
				raw := validRaw()
				raw.Bid = 0
				return raw
			},
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.True(t, errors.IsCode(err, errors.ValidationError))
				assert.Zero(t, buf.Len())
			},
		},
		{
			name: "unparseable timestamp rejected",
			raw: func() RawTick {
				raw := validRaw()
				raw.Timestamp = "last tuesday"
				return raw
			},
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.True(t, errors.IsCode(err, errors.ValidationError))
				assert.Zero(t, buf.Len())
			},
		},
		{
			name: "zero spread derived from quotes",
			raw: func() RawTick {
				raw := validRaw()
				raw.Spread = 0
				return raw
			},
			assertFn: func(t *testing.T, u *Usecase, buf *Buffer, err error) {
				assert.NoError(t, err)
				ticks := buf.DrainAll()
				assert.Len(t, ticks, 1)
				assert.InDelta(t, 0.2, ticks[0].Spread, 1e-9)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			l := loggerMock.NewMockInterface(ctrl)
			l.EXPECT().DebugContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

			buf := NewBuffer(100)
			u := NewUsecase(testRegistry(t), buf, l)

			err := u.Submit(context.Background(), tc.raw())
			tc.assertFn(t, u, buf, err)
		})
	}
}

func TestUsecase_SubmitBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := loggerMock.NewMockInterface(ctrl)
	l.EXPECT().DebugContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	buf := NewBuffer(100)
	u := NewUsecase(testRegistry(t), buf, l)

	bad := validRaw()
	bad.Symbol = "DOGE.X"

	accepted, rejected := u.SubmitBatch(context.Background(), []RawTick{
		validRaw(), bad, validRaw(),
	})

	// a rejected tick never blocks the rest of the batch
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, buf.Len())
}

func TestBuffer_SoftCapSignalsFlush(t *testing.T) {
	buf := NewBuffer(2)

	buf.Enqueue(tick.Tick{Symbol: "TSLA"})
	select {
	case <-buf.FlushRequests():
		t.Fatal("flush requested below soft cap")
	default:
	}

	buf.Enqueue(tick.Tick{Symbol: "TSLA"})
	select {
	case <-buf.FlushRequests():
	default:
		t.Fatal("expected flush request at soft cap")
	}

	// above the cap the pending request slot stays full, producers never block
	buf.Enqueue(tick.Tick{Symbol: "TSLA"})
	assert.Equal(t, 3, buf.Len())
}

func TestBuffer_DrainAll(t *testing.T) {
	buf := NewBuffer(100)
	buf.Enqueue(tick.Tick{Symbol: "TSLA", Bid: 1})
	buf.Enqueue(tick.Tick{Symbol: "NATGAS", Bid: 2})

	drained := buf.DrainAll()
	assert.Len(t, drained, 2)
	assert.Equal(t, "TSLA", drained[0].Symbol)
	assert.Zero(t, buf.Len())
	assert.Empty(t, buf.DrainAll())
}
