package bars

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/history"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	"github.com/xyVar/KLDAFinTech/pkg/interval"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// Bar is one OHLC aggregate over a time bucket. Open/close come from the bid
// series, high from ask, low from bid, so the range brackets the touchable
// prices rather than a mid.
type Bar struct {
	Symbol      string
	Timeframe   string
	BucketStart time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      int64
	AvgSpread   int64
	TickCount   int
}

// Aggregator derives bars on demand from tick history. Nothing is
// precomputed or cached; buckets with no ticks are simply absent.
type Aggregator struct {
	registry    *symbol.Registry
	historyRepo history.HistoryRepository
	logger      logger.Interface
	now         func() time.Time
}

// NewAggregator creates the bar aggregator.
func NewAggregator(registry *symbol.Registry, historyRepo history.HistoryRepository, l logger.Interface) *Aggregator {
	return &Aggregator{
		registry:    registry,
		historyRepo: historyRepo,
		logger:      l,
		now:         time.Now,
	}
}

// GetBars aggregates up to limit bars for the symbol at the given timeframe,
// returned oldest first. Only the most recent buckets ending at now are
// considered.
func (a *Aggregator) GetBars(ctx context.Context, canonical, timeframe string, limit int) ([]*Bar, error) {
	if _, ok := a.registry.Lookup(canonical); !ok {
		return nil, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unknown symbol: %s", canonical))
	}
	iv, err := interval.GetInterval(timeframe)
	if err != nil {
		return nil, errors.NewCodedError(errors.ValidationError, err.Error())
	}
	if limit <= 0 {
		return nil, errors.NewCodedError(errors.ValidationError, "limit must be positive")
	}

	from := iv.LookbackWindow(a.now(), limit)
	records, err := a.historyRepo.GetByFilter(ctx, canonical, history.Filter{
		From:      &from,
		Ascending: true,
	})
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	bars := Aggregate(canonical, iv, records)
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	a.logger.DebugContext(ctx, "aggregated bars",
		logger.NewField("symbol", canonical),
		logger.NewField("timeframe", iv.Name),
		logger.NewField("ticks", len(records)),
		logger.NewField("bars", len(bars)))
	return bars, nil
}

// Aggregate folds time-ascending records into bars. Exported so re-bucketing
// already-fetched records does not require another store round trip.
func Aggregate(canonical string, iv interval.Interval, records []*history.Record) []*Bar {
	var (
		bars      []*Bar
		current   *Bar
		spreadSum float64
	)

	flush := func() {
		if current == nil {
			return
		}
		// mean spread lands on the nearest whole point, matching the feed's unit
		current.AvgSpread = int64(math.Round(spreadSum / float64(current.TickCount)))
		bars = append(bars, current)
		current = nil
		spreadSum = 0
	}

	for _, rec := range records {
		bucket := iv.CalculateBucketTime(rec.Time)
		if current == nil || !bucket.Equal(current.BucketStart) {
			flush()
			current = &Bar{
				Symbol:      canonical,
				Timeframe:   iv.Name,
				BucketStart: bucket,
				Open:        rec.Bid,
				High:        rec.Ask,
				Low:         rec.Bid,
			}
		}
		if rec.Ask > current.High {
			current.High = rec.Ask
		}
		if rec.Bid < current.Low {
			current.Low = rec.Bid
		}
		current.Close = rec.Bid
		current.Volume += rec.Volume
		current.TickCount++
		spreadSum += rec.Spread
	}
	flush()

	return bars
}
