package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock "github.com/xyVar/KLDAFinTech/pkg/questdb/mock"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, "tsla_history", TableName("TSLA"))
	assert.Equal(t, "nas100_history", TableName("NAS100"))
	assert.Equal(t, "spotcrude_history", TableName("SPOTCRUDE"))
}

func TestHistoryRepository_InsertBatch(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)
	records := []*Record{
		{Time: now, Bid: 420.5, Ask: 420.7, Spread: 0.2, Volume: 100, BuyVolume: 100, Flags: 58},
		{Time: now.Add(time.Second), Bid: 420.6, Ask: 420.8, Spread: 0.2, Volume: 50, SellVolume: 50, Flags: 74},
	}

	testCases := []struct {
		name     string
		records  []*Record
		mockFn   func(m *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:    "success",
			records: records,
			mockFn: func(m *mock.MockQuestDBClient) {
				m.EXPECT().Exec(gomock.Any(),
					"INSERT INTO tsla_history (time, bid, ask, spread, volume, buy_volume, sell_volume, flags) VALUES "+
						"($1, $2, $3, $4, $5, $6, $7, $8), ($9, $10, $11, $12, $13, $14, $15, $16)"+
						" ON CONFLICT (time) DO NOTHING",
					records[0].Time, records[0].Bid, records[0].Ask, records[0].Spread,
					records[0].Volume, records[0].BuyVolume, records[0].SellVolume, records[0].Flags,
					records[1].Time, records[1].Bid, records[1].Ask, records[1].Spread,
					records[1].Volume, records[1].BuyVolume, records[1].SellVolume, records[1].Flags,
				).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "empty batch is a no-op",
			records: nil,
			mockFn:  func(m *mock.MockQuestDBClient) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "error",
			records: records[:1],
			mockFn: func(m *mock.MockQuestDBClient) {
				m.EXPECT().Exec(gomock.Any(), gomock.Any(),
					records[0].Time, records[0].Bid, records[0].Ask, records[0].Spread,
					records[0].Volume, records[0].BuyVolume, records[0].SellVolume, records[0].Flags,
				).Return(errors.New("table does not exist"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			repo := NewRepository(client)
			err := repo.InsertBatch(context.Background(), "TSLA", tc.records)
			tc.assertFn(t, err)
		})
	}
}

func TestHistoryRepository_GetByFilter(t *testing.T) {
	from := time.Now().Add(-time.Hour).Truncate(time.Microsecond)

	testCases := []struct {
		name     string
		filter   Filter
		mockFn   func(ctrl *gomock.Controller, m *mock.MockQuestDBClient)
		assertFn func(t *testing.T, records []*Record, err error)
	}{
		{
			name:   "ascending with from bound",
			filter: Filter{From: &from, Ascending: true},
			mockFn: func(ctrl *gomock.Controller, m *mock.MockQuestDBClient) {
				rows := mock.NewMockRowsInterface(ctrl)
				gomock.InOrder(
					rows.EXPECT().Next().Return(true),
					rows.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
						gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(dest ...any) error {
							*dest[1].(*float64) = 130.5
							return nil
						}),
					rows.EXPECT().Next().Return(false),
					rows.EXPECT().Err().Return(nil),
					rows.EXPECT().Close(),
				)
				m.EXPECT().Query(gomock.Any(),
					"SELECT time, bid, ask, spread, volume, buy_volume, sell_volume, flags FROM nvda_history WHERE 1=1 AND time >= $1 ORDER BY time ASC",
					from).Return(rows, nil)
			},
			assertFn: func(t *testing.T, records []*Record, err error) {
				assert.NoError(t, err)
				assert.Len(t, records, 1)
				assert.Equal(t, 130.5, records[0].Bid)
			},
		},
		{
			name:   "descending with limit",
			filter: Filter{Limit: 200},
			mockFn: func(ctrl *gomock.Controller, m *mock.MockQuestDBClient) {
				rows := mock.NewMockRowsInterface(ctrl)
				gomock.InOrder(
					rows.EXPECT().Next().Return(false),
					rows.EXPECT().Err().Return(nil),
					rows.EXPECT().Close(),
				)
				m.EXPECT().Query(gomock.Any(),
					"SELECT time, bid, ask, spread, volume, buy_volume, sell_volume, flags FROM nvda_history WHERE 1=1 ORDER BY time DESC LIMIT $1",
					200).Return(rows, nil)
			},
			assertFn: func(t *testing.T, records []*Record, err error) {
				assert.NoError(t, err)
				assert.Empty(t, records)
			},
		},
		{
			name:   "query error",
			filter: Filter{},
			mockFn: func(ctrl *gomock.Controller, m *mock.MockQuestDBClient) {
				m.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			assertFn: func(t *testing.T, records []*Record, err error) {
				assert.Error(t, err)
				assert.Nil(t, records)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(ctrl, client)

			repo := NewRepository(client)
			records, err := repo.GetByFilter(context.Background(), "NVDA", tc.filter)
			tc.assertFn(t, records, err)
		})
	}
}

func TestHistoryRepository_GetRecent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)
	gomock.InOrder(
		rows.EXPECT().Next().Return(false),
		rows.EXPECT().Err().Return(nil),
		rows.EXPECT().Close(),
	)
	client.EXPECT().Query(gomock.Any(),
		"SELECT time, bid, ask, spread, volume, buy_volume, sell_volume, flags FROM vix_history WHERE 1=1 ORDER BY time DESC LIMIT $1",
		50).Return(rows, nil)

	repo := NewRepository(client)
	records, err := repo.GetRecent(context.Background(), "VIX", 50)
	assert.NoError(t, err)
	assert.Empty(t, records)
}
