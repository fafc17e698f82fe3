package trading

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xyVar/KLDAFinTech/internal/domain/broker"
	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/position"
	"github.com/xyVar/KLDAFinTech/internal/usecase/analytics"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// MetricsProvider is the slice of the analytics engine the manager needs.
type MetricsProvider interface {
	ComputeMetrics(ctx context.Context, canonical string) (*analytics.Metrics, error)
}

// AccountState is a point-in-time view of the simulated account.
type AccountState struct {
	Balance         float64
	RealizedPnL     float64
	UnrealizedPnL   float64 // always zero, mark-to-market is not computed
	OpenPositions   int
	ClosedPositions int
	WinRate         float64
}

// Manager owns the position lifecycle: entries on the composite signal, exits
// on stop-loss and take-profit levels, and the simulated account. All state
// transitions go through the manager's lock, so a symbol can never hold two
// OPEN positions at once.
type Manager struct {
	registry     *symbol.Registry
	metrics      MetricsProvider
	positionRepo position.PositionRepository
	broker       broker.Broker
	account      *Account
	cfg          config.TradingConfig
	logger       logger.Interface
	now          func() time.Time

	mu   sync.Mutex
	open map[string]*position.Position
}

// NewManager creates the lifecycle manager. Call LoadOpenPositions before Run
// so positions survive a restart.
func NewManager(
	registry *symbol.Registry,
	metrics MetricsProvider,
	positionRepo position.PositionRepository,
	b broker.Broker,
	account *Account,
	cfg config.TradingConfig,
	l logger.Interface,
) *Manager {
	return &Manager{
		registry:     registry,
		metrics:      metrics,
		positionRepo: positionRepo,
		broker:       b,
		account:      account,
		cfg:          cfg,
		logger:       l,
		now:          time.Now,
		open:         make(map[string]*position.Position),
	}
}

// LoadOpenPositions restores the in-memory open set from the store.
func (m *Manager) LoadOpenPositions(ctx context.Context) error {
	positions, err := m.positionRepo.GetOpen(ctx)
	if err != nil {
		return errors.TracerFromError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pos := range positions {
		m.open[pos.Symbol] = pos
	}

	m.logger.InfoContext(ctx, "restored open positions", logger.NewField("count", len(positions)))
	return nil
}

// Run evaluates the lifecycle on the configured interval until the context is
// cancelled.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.EvalInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.EvaluateOnce(ctx)
		}
	}
}

// EvaluateOnce runs one lifecycle cycle: exits before entries, so capital
// freed by a close is available to a new position in the same cycle.
func (m *Manager) EvaluateOnce(ctx context.Context) {
	m.evaluateExits(ctx)
	m.evaluateEntries(ctx)
}

func (m *Manager) evaluateExits(ctx context.Context) {
	for _, pos := range m.openPositions() {
		metrics, err := m.metrics.ComputeMetrics(ctx, pos.Symbol)
		if err != nil {
			if errors.IsCode(err, errors.StaleDataError) {
				// no fresh quote, skip this symbol until the feed recovers
				m.logger.DebugContext(ctx, "skipping exit check on stale data",
					logger.NewField("symbol", pos.Symbol))
				continue
			}
			m.logger.ErrorContext(ctx, err, logger.NewField("symbol", pos.Symbol))
			continue
		}

		// Exits fill at the crossed level, not at the observed bid, so a gap
		// through the level cannot overstate the realized P&L.
		switch {
		case metrics.Bid <= pos.StopLoss:
			m.closePosition(ctx, pos, position.ReasonStopLoss, pos.StopLoss, metrics.TxCost)
		case metrics.Bid >= pos.TakeProfit:
			m.closePosition(ctx, pos, position.ReasonTakeProfit, pos.TakeProfit, metrics.TxCost)
		}
	}
}

func (m *Manager) evaluateEntries(ctx context.Context) {
	for _, sym := range m.registry.Symbols() {
		if m.openCount() >= m.cfg.MaxPositions {
			return
		}
		if m.hasOpen(sym.Key) {
			continue
		}

		metrics, err := m.metrics.ComputeMetrics(ctx, sym.Key)
		if err != nil {
			if errors.IsCode(err, errors.StaleDataError) {
				continue
			}
			m.logger.ErrorContext(ctx, err, logger.NewField("symbol", sym.Key))
			continue
		}
		if !metrics.CompositeSignal {
			continue
		}

		if err := m.OpenPosition(ctx, sym.Key, metrics.Ask); err != nil {
			m.logger.ErrorContext(ctx, err, logger.NewField("symbol", sym.Key))
		}
	}
}

// OpenPosition opens a long position at the given entry price. The manager
// lock holds across the check-and-insert so two concurrent attempts on the
// same symbol produce exactly one OPEN position.
func (m *Manager) OpenPosition(ctx context.Context, canonical string, entryPrice float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.open[canonical]; exists {
		return errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("position already open for %s", canonical))
	}
	if len(m.open) >= m.cfg.MaxPositions {
		return errors.NewCodedError(errors.ValidationError, "max positions reached")
	}
	if entryPrice <= 0 {
		return errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("non-positive entry price for %s", canonical))
	}

	size := m.account.Balance() * m.cfg.RiskPerTrade / entryPrice
	pos := &position.Position{
		Symbol:     canonical,
		EntryTime:  m.now().Truncate(time.Microsecond),
		EntryPrice: entryPrice,
		Size:       size,
		StopLoss:   entryPrice * (1 - m.cfg.StopLossPct),
		TakeProfit: entryPrice * (1 + m.cfg.TakeProfitPct),
		Status:     position.StatusOpen,
	}

	err := m.withRetries(ctx, "open", canonical, func(ctx context.Context) error {
		return m.broker.OpenLong(ctx, canonical, pos.Size, pos.EntryPrice, pos.StopLoss, pos.TakeProfit)
	})
	if err != nil {
		return errors.NewCodedError(errors.BrokerActionError,
			fmt.Sprintf("broker open failed for %s", canonical)).WithCause(err)
	}

	id, err := m.positionRepo.Insert(ctx, pos)
	if err != nil {
		return errors.TracerFromError(err)
	}
	pos.ID = id
	m.open[canonical] = pos

	m.logger.InfoContext(ctx, "position opened",
		logger.NewField("symbol", canonical),
		logger.NewField("entry_price", pos.EntryPrice),
		logger.NewField("size", pos.Size))
	return nil
}

// closePosition transitions a position to CLOSED exactly once. The balance is
// credited only after the store transition succeeds; broker retry exhaustion
// parks the position in NEEDS_RECONCILIATION instead of closing it.
func (m *Manager) closePosition(ctx context.Context, pos *position.Position, reason position.CloseReason, exitPrice, txCost float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.open[pos.Symbol]
	if !exists || current.ID != pos.ID {
		return
	}

	err := m.withRetries(ctx, "close", pos.Symbol, func(ctx context.Context) error {
		return m.broker.CloseLong(ctx, pos.Symbol, pos.Size, exitPrice)
	})
	if err != nil {
		if markErr := m.positionRepo.MarkReconciliation(ctx, pos.ID); markErr != nil {
			m.logger.ErrorContext(ctx, errors.TracerFromError(markErr),
				logger.NewField("symbol", pos.Symbol),
				logger.NewField("position_id", pos.ID))
		}
		delete(m.open, pos.Symbol)
		m.logger.ErrorContext(ctx,
			errors.NewCodedError(errors.ReconciliationRequiredError,
				fmt.Sprintf("broker close exhausted retries for %s", pos.Symbol)).WithCause(err),
			logger.NewField("position_id", pos.ID))
		return
	}

	pnl := (exitPrice-pos.EntryPrice)*pos.Size - txCost
	exitTime := m.now().Truncate(time.Microsecond)
	if err := m.positionRepo.Close(ctx, pos.ID, exitTime, exitPrice, pnl); err != nil {
		m.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.NewField("symbol", pos.Symbol),
			logger.NewField("position_id", pos.ID))
		return
	}

	delete(m.open, pos.Symbol)
	m.account.ApplyClose(pnl)

	m.logger.InfoContext(ctx, "position closed",
		logger.NewField("symbol", pos.Symbol),
		logger.NewField("reason", string(reason)),
		logger.NewField("exit_price", exitPrice),
		logger.NewField("realized_pnl", pnl))
}

// withRetries runs a broker action up to the configured attempt budget.
func (m *Manager) withRetries(ctx context.Context, action, canonical string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= m.cfg.BrokerMaxRetries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		m.logger.WarnContext(ctx, "broker action failed",
			logger.NewField("action", action),
			logger.NewField("symbol", canonical),
			logger.NewField("attempt", attempt),
			logger.NewField("error", err.Error()))
	}
	return err
}

// AccountState returns the simulated account view.
func (m *Manager) AccountState() AccountState {
	balance, realized, wins, losses := m.account.Summary()

	state := AccountState{
		Balance:         balance,
		RealizedPnL:     realized,
		OpenPositions:   m.openCount(),
		ClosedPositions: wins + losses,
	}
	if total := wins + losses; total > 0 {
		state.WinRate = float64(wins) / float64(total)
	}
	return state
}

func (m *Manager) openPositions() []*position.Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	positions := make([]*position.Position, 0, len(m.open))
	for _, pos := range m.open {
		positions = append(positions, pos)
	}
	return positions
}

func (m *Manager) openCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

func (m *Manager) hasOpen(canonical string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.open[canonical]
	return ok
}
