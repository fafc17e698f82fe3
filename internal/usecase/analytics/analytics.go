package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/history"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/snapshot"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// Regime classifies the medium-term direction of a symbol.
type Regime string

const (
	RegimeBullish Regime = "BULLISH"
	RegimeBearish Regime = "BEARISH"
	RegimeNeutral Regime = "NEUTRAL"
)

// Metrics is the full analytics view for one symbol at one instant.
type Metrics struct {
	Symbol string
	Class  symbol.AssetClass

	Bid    float64
	Ask    float64
	Spread float64
	AsOf   time.Time

	MeanReversionPct    float64
	SpreadVolatilityPct float64
	TrendPct            float64
	Regime              Regime
	TxCost              float64

	CompositeSignal bool
}

// Engine computes rolling metrics over recent tick history. Metrics are
// derived on demand from the store; the engine keeps no state between calls.
type Engine struct {
	registry     *symbol.Registry
	snapshotRepo snapshot.SnapshotRepository
	historyRepo  history.HistoryRepository
	cfg          config.AnalyticsConfig
	logger       logger.Interface
	now          func() time.Time
}

// NewEngine creates the analytics engine.
func NewEngine(
	registry *symbol.Registry,
	snapshotRepo snapshot.SnapshotRepository,
	historyRepo history.HistoryRepository,
	cfg config.AnalyticsConfig,
	l logger.Interface,
) *Engine {
	return &Engine{
		registry:     registry,
		snapshotRepo: snapshotRepo,
		historyRepo:  historyRepo,
		cfg:          cfg,
		logger:       l,
		now:          time.Now,
	}
}

// ComputeMetrics evaluates the rolling windows and the composite signal for a
// symbol. A missing or stale snapshot yields a stale-data error: no metric is
// ever computed from data older than the freshness threshold.
func (e *Engine) ComputeMetrics(ctx context.Context, canonical string) (*Metrics, error) {
	sym, ok := e.registry.Lookup(canonical)
	if !ok {
		return nil, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unknown symbol: %s", canonical))
	}

	snap, err := e.snapshotRepo.GetBySymbol(ctx, canonical)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	if snap == nil {
		return nil, errors.NewCodedError(errors.StaleDataError,
			fmt.Sprintf("no snapshot for %s", canonical))
	}
	if age := snap.Age(e.now()); age > e.cfg.FreshnessThreshold {
		return nil, errors.NewCodedError(errors.StaleDataError,
			fmt.Sprintf("snapshot for %s is %s old", canonical, age.Truncate(time.Millisecond)))
	}

	// Records come back newest first; index 0 is the current tick's record.
	records, err := e.historyRepo.GetRecent(ctx, canonical, e.cfg.TrendWindow)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	m := &Metrics{
		Symbol: canonical,
		Class:  sym.Class,
		Bid:    snap.Bid,
		Ask:    snap.Ask,
		Spread: snap.Spread,
		AsOf:   snap.LastUpdated,
		Regime: RegimeNeutral,
		TxCost: snap.Spread/2 + e.cfg.FixedCarryCost,
	}

	if avg := averageBid(window(records, e.cfg.MeanReversionWindow)); avg != 0 {
		m.MeanReversionPct = (snap.Bid - avg) / avg * 100
	}
	if avg := averageSpread(window(records, e.cfg.SpreadWindow)); snap.Spread != 0 && avg != 0 {
		m.SpreadVolatilityPct = (snap.Spread - avg) / avg * 100
	}

	th := e.thresholds(sym.Class)

	// Trend compares the recent half of the window against the older half; the
	// regime boundary is the per-class trend threshold, not zero, so a flat
	// drift stays NEUTRAL.
	if len(records) >= e.cfg.TrendWindow {
		half := e.cfg.TrendWindow / 2
		recent := averageBid(records[:half])
		older := averageBid(records[half:e.cfg.TrendWindow])
		if older != 0 {
			m.TrendPct = (recent - older) / older * 100
		}
		switch {
		case m.TrendPct > th.TrendPct:
			m.Regime = RegimeBullish
		case m.TrendPct < -th.TrendPct:
			m.Regime = RegimeBearish
		}
	}

	m.CompositeSignal = composite(th, m)

	return m, nil
}

// composite requires every per-class condition to hold at once: a dip below
// the mean-reversion threshold, calm spreads, a bullish regime, and an
// affordable transaction cost.
func composite(th config.ThresholdConfig, m *Metrics) bool {
	return m.MeanReversionPct < th.MeanReversionPct &&
		m.SpreadVolatilityPct < th.SpreadVolatilityPct &&
		m.Regime == RegimeBullish &&
		m.TxCost < th.MaxTxCost
}

func (e *Engine) thresholds(class symbol.AssetClass) config.ThresholdConfig {
	switch class {
	case symbol.ClassCommodity:
		return e.cfg.Commodity
	case symbol.ClassIndex:
		return e.cfg.Index
	default:
		return e.cfg.Equity
	}
}

func window(records []*history.Record, size int) []*history.Record {
	if len(records) < size {
		return records
	}
	return records[:size]
}

func averageBid(records []*history.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Bid
	}
	return sum / float64(len(records))
}

func averageSpread(records []*history.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Spread
	}
	return sum / float64(len(records))
}
