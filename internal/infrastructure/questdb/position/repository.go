package position

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Repository represents the repository for position data.
type Repository struct {
	client questdb.QuestDBClient
}

var _ PositionRepository = (*Repository)(nil)

// NewRepository creates a new position repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Insert stores a new OPEN position and returns its id. The partial unique
// index on (symbol) WHERE status = 'OPEN' rejects a second open position for
// the same symbol.
func (r *Repository) Insert(ctx context.Context, position *Position) (int64, error) {
	query := `INSERT INTO positions (symbol, entry_time, entry_price, size, stop_loss, take_profit, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	var id int64
	err := r.client.QueryRow(ctx, query,
		position.Symbol, position.EntryTime, position.EntryPrice,
		position.Size, position.StopLoss, position.TakeProfit,
		string(StatusOpen)).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to insert position: %w", err)
	}

	return id, nil
}

// Close transitions an OPEN position to CLOSED exactly once. The status guard
// in the WHERE clause makes a second close a no-op at the store level.
func (r *Repository) Close(ctx context.Context, id int64, exitTime time.Time, exitPrice, realizedPnL float64) error {
	query := `UPDATE positions
			  SET status = $1,
				  exit_time = $2,
				  exit_price = $3,
				  realized_pnl = $4
			  WHERE id = $5 AND status = $6`

	err := r.client.Exec(ctx, query,
		string(StatusClosed), exitTime, exitPrice, realizedPnL, id, string(StatusOpen))

	if err != nil {
		return fmt.Errorf("failed to close position: %w", err)
	}

	return nil
}

// MarkReconciliation flags a position whose broker action exhausted retries.
func (r *Repository) MarkReconciliation(ctx context.Context, id int64) error {
	query := `UPDATE positions
			  SET status = $1
			  WHERE id = $2 AND status = $3`

	err := r.client.Exec(ctx, query,
		string(StatusNeedsReconciliation), id, string(StatusOpen))

	if err != nil {
		return fmt.Errorf("failed to mark position for reconciliation: %w", err)
	}

	return nil
}

// GetOpenBySymbol retrieves the OPEN position for a symbol, nil when none.
func (r *Repository) GetOpenBySymbol(ctx context.Context, symbol string) (*Position, error) {
	query := `SELECT id, symbol, entry_time, entry_price, size, stop_loss, take_profit, status, exit_time, exit_price, realized_pnl
			  FROM positions
			  WHERE symbol = $1 AND status = $2`

	position := &Position{}
	err := r.client.QueryRow(ctx, query, symbol, string(StatusOpen)).Scan(
		&position.ID, &position.Symbol, &position.EntryTime, &position.EntryPrice,
		&position.Size, &position.StopLoss, &position.TakeProfit, &position.Status,
		&position.ExitTime, &position.ExitPrice, &position.RealizedPnL)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open position: %w", err)
	}

	return position, nil
}

// GetOpen retrieves all OPEN positions, newest entries first.
func (r *Repository) GetOpen(ctx context.Context) ([]*Position, error) {
	return r.GetByFilter(ctx, Filter{Status: StatusOpen})
}

// GetByFilter retrieves positions by filter, newest entries first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Position, error) {
	query := "SELECT id, symbol, entry_time, entry_price, size, stop_loss, take_profit, status, exit_time, exit_price, realized_pnl FROM positions WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filter.Status))
		argIndex++
	}

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	query += " ORDER BY entry_time DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*Position
	for rows.Next() {
		position := &Position{}
		err := rows.Scan(
			&position.ID, &position.Symbol, &position.EntryTime, &position.EntryPrice,
			&position.Size, &position.StopLoss, &position.TakeProfit, &position.Status,
			&position.ExitTime, &position.ExitPrice, &position.RealizedPnL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return positions, nil
}
