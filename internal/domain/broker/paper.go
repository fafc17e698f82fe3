package broker

import (
	"context"

	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// Paper is a no-venue broker that acknowledges every action. Used when the
// manager runs in simulation mode against live market data.
type Paper struct {
	logger logger.Interface
}

var _ Broker = (*Paper)(nil)

// NewPaper creates a paper broker.
func NewPaper(l logger.Interface) *Paper {
	return &Paper{logger: l}
}

// OpenLong acknowledges the open.
func (p *Paper) OpenLong(ctx context.Context, symbol string, size, price, stopLoss, takeProfit float64) error {
	p.logger.InfoContext(ctx, "paper open",
		logger.NewField("symbol", symbol),
		logger.NewField("size", size),
		logger.NewField("price", price),
		logger.NewField("stop_loss", stopLoss),
		logger.NewField("take_profit", takeProfit))
	return nil
}

// CloseLong acknowledges the close.
func (p *Paper) CloseLong(ctx context.Context, symbol string, size, price float64) error {
	p.logger.InfoContext(ctx, "paper close",
		logger.NewField("symbol", symbol),
		logger.NewField("size", size),
		logger.NewField("price", price))
	return nil
}
