package history

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// HistoryRepository defines the storage operations for per-symbol tick
// archives.
type HistoryRepository interface {
	InsertBatch(ctx context.Context, symbol string, records []*Record) error
	GetByFilter(ctx context.Context, symbol string, filter Filter) ([]*Record, error)
	GetRecent(ctx context.Context, symbol string, limit int) ([]*Record, error)
}
