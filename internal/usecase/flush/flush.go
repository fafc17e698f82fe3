package flush

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/history"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/snapshot"
	"github.com/xyVar/KLDAFinTech/internal/usecase/ingest"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Stats is a point-in-time view of the flush counters.
type Stats struct {
	FlushedTicks  uint64
	DroppedTicks  uint64
	FailedBatches uint64
	LastFlush     time.Time
}

// Flusher drains the tick buffer on a cadence and dual-writes each symbol's
// batch to the snapshot and history tables in one transaction. Symbols flush
// in parallel; a failed symbol batch is discarded, never retried, so one
// slow or broken partition cannot wedge the pipeline.
type Flusher struct {
	buffer       *ingest.Buffer
	snapshotRepo snapshot.SnapshotRepository
	historyRepo  history.HistoryRepository
	dbTx         questdb.TX
	cfg          config.IngestConfig
	logger       logger.Interface

	flushedTicks  atomic.Uint64
	droppedTicks  atomic.Uint64
	failedBatches atomic.Uint64
	lastFlush     atomic.Int64 // unix nanos
}

// NewFlusher creates the flusher.
func NewFlusher(
	buffer *ingest.Buffer,
	snapshotRepo snapshot.SnapshotRepository,
	historyRepo history.HistoryRepository,
	dbTx questdb.TX,
	cfg config.IngestConfig,
	l logger.Interface,
) *Flusher {
	return &Flusher{
		buffer:       buffer,
		snapshotRepo: snapshotRepo,
		historyRepo:  historyRepo,
		dbTx:         dbTx,
		cfg:          cfg,
		logger:       l,
	}
}

// Run flushes on the configured interval and whenever the buffer signals its
// soft cap, until the context is cancelled. A final drain runs on shutdown.
func (f *Flusher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.FlushOnce(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-ticker.C:
			f.FlushOnce(ctx)
		case <-f.buffer.FlushRequests():
			f.FlushOnce(ctx)
		}
	}
}

// FlushOnce drains the buffer and writes everything accumulated since the
// last cycle. Per-symbol batches commit independently.
func (f *Flusher) FlushOnce(ctx context.Context) {
	ticks := f.buffer.DrainAll()
	if len(ticks) == 0 {
		return
	}

	flushCtx, cancel := context.WithTimeout(ctx, f.cfg.FlushTimeout)
	defer cancel()

	group, groupCtx := errgroup.WithContext(flushCtx)
	for sym, batch := range partitionBySymbol(ticks) {
		sym, batch := sym, batch
		group.Go(func() error {
			if err := f.flushSymbol(groupCtx, batch); err != nil {
				f.failedBatches.Add(1)
				f.droppedTicks.Add(uint64(len(batch)))
				f.logger.ErrorContext(groupCtx, errors.TracerFromError(err),
					logger.NewField("symbol", sym),
					logger.NewField("dropped", len(batch)))
				return nil // one bad partition must not cancel siblings
			}
			f.flushedTicks.Add(uint64(len(batch)))
			return nil
		})
	}
	_ = group.Wait()

	f.lastFlush.Store(time.Now().UnixNano())
}

// flushSymbol writes one symbol's batch atomically: the chronologically last
// tick becomes the snapshot row, the whole batch goes to the symbol's history
// table. Either both land or neither does.
func (f *Flusher) flushSymbol(ctx context.Context, batch []tick.Tick) error {
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Time.Before(batch[j].Time)
	})

	// two distinct ticks on one event time means a feed problem upstream; the
	// insert keeps the first and the collision gets surfaced here
	for i := 1; i < len(batch); i++ {
		if batch[i].Time.Equal(batch[i-1].Time) {
			f.logger.WarnContext(ctx, "event time collision in flush batch",
				logger.NewField("symbol", batch[i].Symbol),
				logger.NewField("time", batch[i].Time))
		}
	}

	records := make([]*history.Record, 0, len(batch))
	for _, t := range batch {
		records = append(records, history.FromTick(t))
	}
	latest := batch[len(batch)-1]

	txCtx, err := f.dbTx.Begin(ctx)
	if err != nil {
		return errors.NewCodedError(errors.TransientStoreError, "failed to begin flush transaction").WithCause(err)
	}

	if err := f.snapshotRepo.Upsert(txCtx, snapshot.FromTick(latest)); err != nil {
		_ = f.dbTx.Rollback(txCtx)
		return errors.NewCodedError(errors.TransientStoreError, "failed to upsert snapshot").WithCause(err)
	}

	if err := f.historyRepo.InsertBatch(txCtx, latest.Symbol, records); err != nil {
		_ = f.dbTx.Rollback(txCtx)
		return errors.NewCodedError(errors.TransientStoreError, "failed to insert history batch").WithCause(err)
	}

	if err := f.dbTx.Commit(txCtx); err != nil {
		return errors.NewCodedError(errors.TransientStoreError, "failed to commit flush transaction").WithCause(err)
	}

	return nil
}

// Stats returns the flush counters.
func (f *Flusher) Stats() Stats {
	var last time.Time
	if nanos := f.lastFlush.Load(); nanos > 0 {
		last = time.Unix(0, nanos)
	}
	return Stats{
		FlushedTicks:  f.flushedTicks.Load(),
		DroppedTicks:  f.droppedTicks.Load(),
		FailedBatches: f.failedBatches.Load(),
		LastFlush:     last,
	}
}

func partitionBySymbol(ticks []tick.Tick) map[string][]tick.Tick {
	batches := make(map[string][]tick.Tick)
	for _, t := range ticks {
		batches[t.Symbol] = append(batches[t.Symbol], t)
	}
	return batches
}
