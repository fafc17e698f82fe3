package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// feedTimeLayout is the event timestamp format on the wire.
const feedTimeLayout = "2006-01-02 15:04:05.999999"

// RawTick is an unvalidated tick as delivered by the feed.
type RawTick struct {
	Symbol    string  `json:"symbol"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Spread    float64 `json:"spread"`
	Volume    int64   `json:"volume"`
	Flags     int32   `json:"flags"`
	Timestamp string  `json:"timestamp"`
}

// Stats is a point-in-time view of the ingestion counters.
type Stats struct {
	Received uint64
	Rejected uint64
	Buffered int
}

// Usecase is the single write entrypoint for tick data. It validates and
// normalizes raw ticks and stages accepted ones in the buffer; it never
// touches the store directly.
type Usecase struct {
	registry *symbol.Registry
	buffer   *Buffer
	logger   logger.Interface

	received atomic.Uint64
	rejected atomic.Uint64
}

// NewUsecase creates the ingestion usecase.
func NewUsecase(registry *symbol.Registry, buffer *Buffer, l logger.Interface) *Usecase {
	return &Usecase{
		registry: registry,
		buffer:   buffer,
		logger:   l,
	}
}

// Submit validates a single raw tick and stages it for the next flush.
// Rejections carry a validation error code and leave the buffer untouched.
func (u *Usecase) Submit(ctx context.Context, raw RawTick) error {
	t, err := u.normalize(raw)
	if err != nil {
		u.rejected.Add(1)
		u.logger.DebugContext(ctx, "tick rejected",
			logger.NewField("symbol", raw.Symbol),
			logger.NewField("reason", err.Error()))
		return errors.TracerFromError(err)
	}

	u.buffer.Enqueue(t)
	u.received.Add(1)
	return nil
}

// SubmitBatch validates each tick independently; a rejected tick never blocks
// the rest of the batch. Returns the accepted and rejected counts.
func (u *Usecase) SubmitBatch(ctx context.Context, raws []RawTick) (accepted, rejected int) {
	for _, raw := range raws {
		if err := u.Submit(ctx, raw); err != nil {
			rejected++
			continue
		}
		accepted++
	}
	return accepted, rejected
}

// Stats returns the ingestion counters and current buffer depth.
func (u *Usecase) Stats() Stats {
	return Stats{
		Received: u.received.Load(),
		Rejected: u.rejected.Load(),
		Buffered: u.buffer.Len(),
	}
}

// normalize validates the fields whose zero values are never legitimate:
// symbol, quotes, and timestamp. Volume, flags, and spread decode to zero when
// absent from the JSON, and a zero is also a valid feed value for each of
// them, so they cannot be required; a zero spread is derived from the quotes
// instead.
func (u *Usecase) normalize(raw RawTick) (tick.Tick, error) {
	if raw.Symbol == "" {
		return tick.Tick{}, errors.NewCodedError(errors.ValidationError, "missing symbol")
	}
	if raw.Bid <= 0 || raw.Ask <= 0 {
		return tick.Tick{}, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("non-positive quote for %s: bid=%f ask=%f", raw.Symbol, raw.Bid, raw.Ask))
	}
	if raw.Timestamp == "" {
		return tick.Tick{}, errors.NewCodedError(errors.ValidationError, "missing timestamp")
	}

	sym, err := u.registry.Normalize(raw.Symbol)
	if err != nil {
		return tick.Tick{}, err
	}

	eventTime, err := time.Parse(feedTimeLayout, raw.Timestamp)
	if err != nil {
		return tick.Tick{}, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unparseable timestamp %q", raw.Timestamp)).WithCause(err)
	}

	spread := raw.Spread
	if spread == 0 {
		spread = raw.Ask - raw.Bid
	}

	return tick.New(sym.Key, raw.Bid, raw.Ask, spread, raw.Volume, raw.Flags, eventTime), nil
}
