package bootstrap

import (
	historyInfra "github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/history"
	positionInfra "github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/position"
	snapshotInfra "github.com/xyVar/KLDAFinTech/internal/infrastructure/questdb/snapshot"
)

// Repository is the repository layer of the market core.
type Repository struct {
	SnapshotRepository snapshotInfra.SnapshotRepository
	HistoryRepository  historyInfra.HistoryRepository
	PositionRepository positionInfra.PositionRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.SnapshotRepository = snapshotInfra.NewRepository(b.QuestDB)
	b.Repository.HistoryRepository = historyInfra.NewRepository(b.QuestDB)
	b.Repository.PositionRepository = positionInfra.NewRepository(b.QuestDB)
}
