package trading

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	brokerMock "github.com/xyVar/KLDAFinTech/internal/domain/broker/mock"
	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/position"
	positionMock "github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/position/mock"
	"github.com/xyVar/KLDAFinTech/internal/usecase/analytics"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	pkgErrors "github.com/xyVar/KLDAFinTech/pkg/errors"
	loggerMock "github.com/xyVar/KLDAFinTech/pkg/logger/mock"
)

// metricsStub satisfies MetricsProvider with a canned response per symbol.
type metricsStub struct {
	fn func(ctx context.Context, canonical string) (*analytics.Metrics, error)
}

func (s *metricsStub) ComputeMetrics(ctx context.Context, canonical string) (*analytics.Metrics, error) {
	return s.fn(ctx, canonical)
}

func testConfig() config.TradingConfig {
	return config.TradingConfig{
		InitialCapital:   10000,
		RiskPerTrade:     0.02,
		TakeProfitPct:    0.01,
		StopLossPct:      0.01,
		MaxPositions:     4,
		BrokerMaxRetries: 3,
		EvalInterval:     time.Second,
	}
}

func testRegistry(t *testing.T) *symbol.Registry {
	t.Helper()
	registry, err := symbol.NewRegistry([]string{
		"TSLA.US=TSLA:equity",
		"NVDA.US=NVDA:equity",
	})
	assert.NoError(t, err)
	return registry
}

func quietLogger(ctrl *gomock.Controller) *loggerMock.MockInterface {
	l := loggerMock.NewMockInterface(ctrl)
	l.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().DebugContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return l
}

func bullishMetrics(canonical string, bid float64) *analytics.Metrics {
	return &analytics.Metrics{
		Symbol:          canonical,
		Bid:             bid,
		Ask:             bid + 0.2,
		Spread:          0.2,
		Regime:          analytics.RegimeBullish,
		TxCost:          0.2,
		CompositeSignal: true,
	}
}

func TestManager_OpenPosition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)
	account := NewAccount(10000)

	// 2% of 10k at 100.0 is a 2-share position
	b.EXPECT().OpenLong(gomock.Any(), "TSLA", 2.0, 100.0, 99.0, 101.0).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pos *position.Position) (int64, error) {
			assert.Equal(t, "TSLA", pos.Symbol)
			assert.Equal(t, 2.0, pos.Size)
			assert.Equal(t, 99.0, pos.StopLoss)
			assert.Equal(t, 101.0, pos.TakeProfit)
			assert.Equal(t, position.StatusOpen, pos.Status)
			return 1, nil
		})

	m := NewManager(testRegistry(t), &metricsStub{}, posRepo, b, account, testConfig(), quietLogger(ctrl))

	assert.NoError(t, m.OpenPosition(context.Background(), "TSLA", 100.0))
	assert.Equal(t, 1, m.AccountState().OpenPositions)

	// a second open on the same symbol is rejected
	err := m.OpenPosition(context.Background(), "TSLA", 100.0)
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.ValidationError))
}

func TestManager_OpenPosition_BrokerRetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("venue unavailable")).Times(3)

	m := NewManager(testRegistry(t), &metricsStub{}, posRepo, b, NewAccount(10000), testConfig(), quietLogger(ctrl))

	err := m.OpenPosition(context.Background(), "TSLA", 100.0)
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.BrokerActionError))
	// nothing was persisted and the symbol stays free
	assert.Zero(t, m.AccountState().OpenPositions)
}

func TestManager_ConcurrentOpens_SingleOpenPosition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)

	// exactly one attempt reaches the broker and the store
	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(1)

	m := NewManager(testRegistry(t), &metricsStub{}, posRepo, b, NewAccount(10000), testConfig(), quietLogger(ctrl))

	var wg sync.WaitGroup
	failures := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.OpenPosition(context.Background(), "TSLA", 100.0); err != nil {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)

	assert.Len(t, failures, 7)
	assert.Equal(t, 1, m.AccountState().OpenPositions)
}

func TestManager_Exit_TakeProfitFillsAtLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)
	account := NewAccount(10000)

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		// bid gapped past the take-profit level
		return &analytics.Metrics{Symbol: canonical, Bid: 101.5, TxCost: 0.2}, nil
	}}

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	// fill at 101.00, not the observed 101.50
	b.EXPECT().CloseLong(gomock.Any(), "TSLA", 2.0, 101.0).Return(nil)
	posRepo.EXPECT().Close(gomock.Any(), int64(1), gomock.Any(), 101.0, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, _ time.Time, _ float64, pnl float64) error {
			// (101 - 100) * 2 shares - 0.2 tx cost
			assert.InDelta(t, 1.8, pnl, 1e-9)
			return nil
		})

	m := NewManager(testRegistry(t), metrics, posRepo, b, account, testConfig(), quietLogger(ctrl))
	assert.NoError(t, m.OpenPosition(context.Background(), "TSLA", 100.0))

	m.EvaluateOnce(context.Background())

	state := m.AccountState()
	assert.Zero(t, state.OpenPositions)
	assert.Equal(t, 1, state.ClosedPositions)
	assert.InDelta(t, 10001.8, state.Balance, 1e-9)
	assert.Equal(t, 1.0, state.WinRate)
}

func TestManager_Exit_StopLoss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)
	account := NewAccount(10000)

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		return &analytics.Metrics{Symbol: canonical, Bid: 98.2, TxCost: 0.2}, nil
	}}

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	b.EXPECT().CloseLong(gomock.Any(), "TSLA", 2.0, 99.0).Return(nil)
	posRepo.EXPECT().Close(gomock.Any(), int64(1), gomock.Any(), 99.0, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, _ time.Time, _ float64, pnl float64) error {
			// (99 - 100) * 2 shares - 0.2 tx cost
			assert.InDelta(t, -2.2, pnl, 1e-9)
			return nil
		})

	m := NewManager(testRegistry(t), metrics, posRepo, b, account, testConfig(), quietLogger(ctrl))
	assert.NoError(t, m.OpenPosition(context.Background(), "TSLA", 100.0))

	m.EvaluateOnce(context.Background())

	state := m.AccountState()
	assert.InDelta(t, 9997.8, state.Balance, 1e-9)
	assert.Zero(t, state.WinRate)
}

func TestManager_Exit_BrokerExhaustionParksForReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)
	account := NewAccount(10000)

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		return &analytics.Metrics{Symbol: canonical, Bid: 98.0, TxCost: 0.2}, nil
	}}

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	b.EXPECT().CloseLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any()).
		Return(errors.New("venue unavailable")).Times(3)
	posRepo.EXPECT().MarkReconciliation(gomock.Any(), int64(1)).Return(nil)

	m := NewManager(testRegistry(t), metrics, posRepo, b, account, testConfig(), quietLogger(ctrl))
	assert.NoError(t, m.OpenPosition(context.Background(), "TSLA", 100.0))

	m.EvaluateOnce(context.Background())

	// the balance is untouched, no close was realized
	state := m.AccountState()
	assert.Equal(t, 10000.0, state.Balance)
	assert.Zero(t, state.ClosedPositions)
	assert.Zero(t, state.OpenPositions)
}

func TestManager_Exit_SkipsOnStaleData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		return nil, pkgErrors.NewCodedError(pkgErrors.StaleDataError, "snapshot too old")
	}}

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	m := NewManager(testRegistry(t), metrics, posRepo, b, NewAccount(10000), testConfig(), quietLogger(ctrl))
	assert.NoError(t, m.OpenPosition(context.Background(), "TSLA", 100.0))

	m.EvaluateOnce(context.Background())

	// position survives the cycle untouched
	assert.Equal(t, 1, m.AccountState().OpenPositions)
}

func TestManager_Entries_OpenOnCompositeSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		if canonical == "TSLA" {
			return bullishMetrics(canonical, 100.0), nil
		}
		m := bullishMetrics(canonical, 100.0)
		m.CompositeSignal = false
		return m, nil
	}}

	b.EXPECT().OpenLong(gomock.Any(), "TSLA", gomock.Any(), 100.2, gomock.Any(), gomock.Any()).Return(nil)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pos *position.Position) (int64, error) {
			// entries fill at the ask
			assert.Equal(t, 100.2, pos.EntryPrice)
			return 1, nil
		})

	m := NewManager(testRegistry(t), metrics, posRepo, b, NewAccount(10000), testConfig(), quietLogger(ctrl))
	m.EvaluateOnce(context.Background())

	assert.Equal(t, 1, m.AccountState().OpenPositions)
}

func TestManager_Entries_RespectMaxPositions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	b := brokerMock.NewMockBroker(ctrl)

	cfg := testConfig()
	cfg.MaxPositions = 1

	metrics := &metricsStub{fn: func(_ context.Context, canonical string) (*analytics.Metrics, error) {
		return bullishMetrics(canonical, 100.0), nil
	}}

	// only one slot, only one open despite two signalling symbols
	b.EXPECT().OpenLong(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	posRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(1)

	m := NewManager(testRegistry(t), metrics, posRepo, b, NewAccount(10000), cfg, quietLogger(ctrl))
	m.EvaluateOnce(context.Background())
	m.EvaluateOnce(context.Background())

	assert.Equal(t, 1, m.AccountState().OpenPositions)
}

func TestManager_LoadOpenPositions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posRepo := positionMock.NewMockPositionRepository(ctrl)
	posRepo.EXPECT().GetOpen(gomock.Any()).Return([]*position.Position{
		{ID: 7, Symbol: "NVDA", Status: position.StatusOpen, EntryPrice: 130.0, Size: 1.5},
	}, nil)

	m := NewManager(testRegistry(t), &metricsStub{}, posRepo, brokerMock.NewMockBroker(ctrl),
		NewAccount(10000), testConfig(), quietLogger(ctrl))

	assert.NoError(t, m.LoadOpenPositions(context.Background()))
	assert.Equal(t, 1, m.AccountState().OpenPositions)

	// the restored symbol is occupied
	err := m.OpenPosition(context.Background(), "NVDA", 130.0)
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.ValidationError))
}

func TestAccount_ApplyClose(t *testing.T) {
	account := NewAccount(10000)

	account.ApplyClose(1.8)
	account.ApplyClose(-2.2)
	account.ApplyClose(3.0)

	balance, realized, wins, losses := account.Summary()
	assert.InDelta(t, 10002.6, balance, 1e-9)
	assert.InDelta(t, 2.6, realized, 1e-9)
	assert.Equal(t, 2, wins)
	assert.Equal(t, 1, losses)
}
