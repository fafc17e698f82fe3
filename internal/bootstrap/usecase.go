package bootstrap

import (
	"github.com/xyVar/KLDAFinTech/internal/domain/broker"
	analyticsUc "github.com/xyVar/KLDAFinTech/internal/usecase/analytics"
	barsUc "github.com/xyVar/KLDAFinTech/internal/usecase/bars"
	flushUc "github.com/xyVar/KLDAFinTech/internal/usecase/flush"
	ingestUc "github.com/xyVar/KLDAFinTech/internal/usecase/ingest"
	marketdataUc "github.com/xyVar/KLDAFinTech/internal/usecase/marketdata"
	tradingUc "github.com/xyVar/KLDAFinTech/internal/usecase/trading"
)

// Usecase is the usecase layer of the market core.
type Usecase struct {
	Buffer     *ingestUc.Buffer
	Ingest     *ingestUc.Usecase
	Flusher    *flushUc.Flusher
	Bars       *barsUc.Aggregator
	Analytics  *analyticsUc.Engine
	MarketData *marketdataUc.Usecase
	Trading    *tradingUc.Manager
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.Buffer = ingestUc.NewBuffer(b.Config.Ingest.BufferSoftCap)
	b.Usecase.Ingest = ingestUc.NewUsecase(b.Registry, b.Usecase.Buffer, b.Logger)
	b.Usecase.Flusher = flushUc.NewFlusher(
		b.Usecase.Buffer,
		b.Repository.SnapshotRepository,
		b.Repository.HistoryRepository,
		b.DBTx,
		b.Config.Ingest,
		b.Logger,
	)
	b.Usecase.Bars = barsUc.NewAggregator(b.Registry, b.Repository.HistoryRepository, b.Logger)
	b.Usecase.Analytics = analyticsUc.NewEngine(
		b.Registry,
		b.Repository.SnapshotRepository,
		b.Repository.HistoryRepository,
		b.Config.Analytics,
		b.Logger,
	)
	b.Usecase.MarketData = marketdataUc.NewUsecase(
		b.Registry,
		b.Repository.SnapshotRepository,
		b.Repository.HistoryRepository,
		b.Repository.PositionRepository,
	)
	b.Usecase.Trading = tradingUc.NewManager(
		b.Registry,
		b.Usecase.Analytics,
		b.Repository.PositionRepository,
		broker.NewPaper(b.Logger),
		tradingUc.NewAccount(b.Config.Trading.InitialCapital),
		b.Config.Trading,
		b.Logger,
	)
}
