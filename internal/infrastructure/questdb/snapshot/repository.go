package snapshot

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Repository represents the repository for current snapshot data.
type Repository struct {
	client questdb.QuestDBClient
}

var _ SnapshotRepository = (*Repository)(nil)

// NewRepository creates a new snapshot repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Upsert writes the latest tick for a symbol into the current table. The
// guard on last_updated keeps the row monotonically non-decreasing even if an
// older batch commits after a newer one.
func (r *Repository) Upsert(ctx context.Context, snapshot *Snapshot) error {
	query := `INSERT INTO current (symbol, bid, ask, spread, volume, buy_volume, sell_volume, flags, last_updated)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (symbol) DO UPDATE SET
				  bid = EXCLUDED.bid,
				  ask = EXCLUDED.ask,
				  spread = EXCLUDED.spread,
				  volume = EXCLUDED.volume,
				  buy_volume = EXCLUDED.buy_volume,
				  sell_volume = EXCLUDED.sell_volume,
				  flags = EXCLUDED.flags,
				  last_updated = EXCLUDED.last_updated
			  WHERE current.last_updated <= EXCLUDED.last_updated`

	err := r.client.Exec(ctx, query,
		snapshot.Symbol, snapshot.Bid, snapshot.Ask, snapshot.Spread,
		snapshot.Volume, snapshot.BuyVolume, snapshot.SellVolume,
		snapshot.Flags, snapshot.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// GetBySymbol retrieves the current snapshot for a symbol. Returns nil when
// no row exists.
func (r *Repository) GetBySymbol(ctx context.Context, symbol string) (*Snapshot, error) {
	query := `SELECT symbol, bid, ask, spread, volume, buy_volume, sell_volume, flags, last_updated
			  FROM current
			  WHERE symbol = $1`

	snapshot := &Snapshot{}
	err := r.client.QueryRow(ctx, query, symbol).Scan(
		&snapshot.Symbol, &snapshot.Bid, &snapshot.Ask, &snapshot.Spread,
		&snapshot.Volume, &snapshot.BuyVolume, &snapshot.SellVolume,
		&snapshot.Flags, &snapshot.LastUpdated)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// GetAll retrieves the current snapshot for every symbol.
func (r *Repository) GetAll(ctx context.Context) ([]*Snapshot, error) {
	query := `SELECT symbol, bid, ask, spread, volume, buy_volume, sell_volume, flags, last_updated
			  FROM current
			  ORDER BY symbol`

	rows, err := r.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot := &Snapshot{}
		err := rows.Scan(
			&snapshot.Symbol, &snapshot.Bid, &snapshot.Ask, &snapshot.Spread,
			&snapshot.Volume, &snapshot.BuyVolume, &snapshot.SellVolume,
			&snapshot.Flags, &snapshot.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snapshots, nil
}
