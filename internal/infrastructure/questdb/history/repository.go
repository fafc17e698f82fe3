package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Repository represents the repository for tick history data.
type Repository struct {
	client questdb.QuestDBClient
}

var _ HistoryRepository = (*Repository)(nil)

// NewRepository creates a new history repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// TableName maps a canonical symbol to its history table. The per-symbol
// table layout is an ops compromise; swapping to one partitioned table only
// touches this function.
func TableName(symbol string) string {
	return strings.ToLower(symbol) + "_history"
}

// InsertBatch appends records to a symbol's history table. Duplicate event
// times are no-ops, which makes the insert idempotent on (symbol, time).
func (r *Repository) InsertBatch(ctx context.Context, symbol string, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"INSERT INTO %s (time, bid, ask, spread, volume, buy_volume, sell_volume, flags) VALUES ",
		TableName(symbol)))

	args := make([]any, 0, len(records)*8)
	for i, record := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			record.Time, record.Bid, record.Ask, record.Spread,
			record.Volume, record.BuyVolume, record.SellVolume, record.Flags)
	}
	sb.WriteString(" ON CONFLICT (time) DO NOTHING")

	if err := r.client.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert history batch: %w", err)
	}

	return nil
}

// GetByFilter retrieves history records for a symbol by filter.
func (r *Repository) GetByFilter(ctx context.Context, symbol string, filter Filter) ([]*Record, error) {
	query := fmt.Sprintf(
		"SELECT time, bid, ask, spread, volume, buy_volume, sell_volume, flags FROM %s WHERE 1=1",
		TableName(symbol))
	args := []interface{}{}
	argIndex := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND time >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND time <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	if filter.Ascending {
		query += " ORDER BY time ASC"
	} else {
		query += " ORDER BY time DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record := &Record{}
		err := rows.Scan(
			&record.Time, &record.Bid, &record.Ask, &record.Spread,
			&record.Volume, &record.BuyVolume, &record.SellVolume, &record.Flags)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetRecent retrieves the most recent records for a symbol, newest first.
func (r *Repository) GetRecent(ctx context.Context, symbol string, limit int) ([]*Record, error) {
	return r.GetByFilter(ctx, symbol, Filter{Limit: limit})
}
