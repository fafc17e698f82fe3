package snapshot

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// SnapshotRepository defines the storage operations for the current table.
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *Snapshot) error
	GetBySymbol(ctx context.Context, symbol string) (*Snapshot, error)
	GetAll(ctx context.Context) ([]*Snapshot, error)
}
