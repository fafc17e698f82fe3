package bootstrap

import (
	"github.com/xyVar/KLDAFinTech/internal/domain/symbol"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Bootstrap wires the repositories and usecases for the market core.
type Bootstrap struct {
	Usecase    Usecase
	Repository Repository
	Logger     logger.Interface
	Registry   *symbol.Registry
	Config     *config.Config

	QuestDB questdb.QuestDBClient
	DBTx    questdb.TX
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	QuestDB questdb.QuestDBClient
	Logger  logger.Interface
	Config  *config.Config
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) (Bootstrap, error) {
	b.QuestDB = config.QuestDB
	b.Logger = config.Logger
	b.Config = config.Config
	b.DBTx = questdb.NewTransaction(config.QuestDB)

	registry, err := symbol.NewRegistry(config.Config.App.Universe)
	if err != nil {
		return Bootstrap{}, err
	}
	b.Registry = registry

	b.registerRepository()
	b.registerUsecase()

	return *b, nil
}
