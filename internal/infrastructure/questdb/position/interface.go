package position

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// PositionRepository defines the storage operations for the positions table.
type PositionRepository interface {
	Insert(ctx context.Context, position *Position) (int64, error)
	Close(ctx context.Context, id int64, exitTime time.Time, exitPrice, realizedPnL float64) error
	MarkReconciliation(ctx context.Context, id int64) error
	GetOpenBySymbol(ctx context.Context, symbol string) (*Position, error)
	GetOpen(ctx context.Context) ([]*Position, error)
	GetByFilter(ctx context.Context, filter Filter) ([]*Position, error)
}
