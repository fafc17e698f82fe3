package marketdata

import (
	"context"
	"fmt"

	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/history"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/position"
	"github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/snapshot"
	"github.com/xyVar/KLDAFinTech/pkg/errors"
)

// Usecase is the read boundary over stored market data: current snapshots,
// tick history, and positions. All reads validate the symbol against the
// trading universe before touching the store.
type Usecase struct {
	registry     *symbol.Registry
	snapshotRepo snapshot.SnapshotRepository
	historyRepo  history.HistoryRepository
	positionRepo position.PositionRepository
}

// NewUsecase creates the market data read usecase.
func NewUsecase(
	registry *symbol.Registry,
	snapshotRepo snapshot.SnapshotRepository,
	historyRepo history.HistoryRepository,
	positionRepo position.PositionRepository,
) *Usecase {
	return &Usecase{
		registry:     registry,
		snapshotRepo: snapshotRepo,
		historyRepo:  historyRepo,
		positionRepo: positionRepo,
	}
}

// GetCurrent returns the latest snapshot for a symbol, nil when the symbol
// has never ticked.
func (u *Usecase) GetCurrent(ctx context.Context, canonical string) (*snapshot.Snapshot, error) {
	if _, ok := u.registry.Lookup(canonical); !ok {
		return nil, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unknown symbol: %s", canonical))
	}

	snap, err := u.snapshotRepo.GetBySymbol(ctx, canonical)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return snap, nil
}

// GetAllCurrent returns the latest snapshot of every symbol that has ticked.
func (u *Usecase) GetAllCurrent(ctx context.Context) ([]*snapshot.Snapshot, error) {
	snaps, err := u.snapshotRepo.GetAll(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return snaps, nil
}

// GetTickHistory returns the most recent ticks for a symbol, oldest first.
func (u *Usecase) GetTickHistory(ctx context.Context, canonical string, limit int) ([]*history.Record, error) {
	if _, ok := u.registry.Lookup(canonical); !ok {
		return nil, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unknown symbol: %s", canonical))
	}
	if limit <= 0 {
		return nil, errors.NewCodedError(errors.ValidationError, "limit must be positive")
	}

	records, err := u.historyRepo.GetRecent(ctx, canonical, limit)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	// the store hands back the newest window; callers read it chronologically
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// GetPositions returns positions matching the filter, newest entries first.
func (u *Usecase) GetPositions(ctx context.Context, filter position.Filter) ([]*position.Position, error) {
	if filter.Symbol != "" {
		if _, ok := u.registry.Lookup(filter.Symbol); !ok {
			return nil, errors.NewCodedError(errors.ValidationError,
				fmt.Sprintf("unknown symbol: %s", filter.Symbol))
		}
	}

	positions, err := u.positionRepo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return positions, nil
}
