package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	QuestDB   questdb.Config  `envPrefix:"QUESTDB_"`
	FeedKafka FeedKafkaConfig `envPrefix:"FEED_KAFKA_"`
	Ingest    IngestConfig    `envPrefix:"INGEST_"`
	Analytics AnalyticsConfig `envPrefix:"ANALYTICS_"`
	Trading   TradingConfig   `envPrefix:"TRADING_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"market-core"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Universe maps external feed identifiers to canonical symbols and asset
	// classes, entries formatted as "EXTERNAL=CANONICAL:class".
	Universe []string `env:"UNIVERSE" envSeparator:"," envDefault:"TSLA.US=TSLA:equity,NVDA.US=NVDA:equity,AAPL.US=AAPL:equity,MSFT.US=MSFT:equity,AMZN.US=AMZN:equity,NAS100=NAS100:index,VIX=VIX:index,NatGas=NATGAS:commodity,SpotCrude=SPOTCRUDE:commodity"`
}

// FeedKafkaConfig represents the Kafka configuration for the tick feed.
type FeedKafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"ticks"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"market-core"`
	MaxRetries    int      `env:"MAX_RETRIES" envDefault:"3"`
}

// IngestConfig controls the tick buffer and flush cycle.
type IngestConfig struct {
	// BufferSoftCap triggers an out-of-band flush request when crossed; it
	// never blocks or rejects producers.
	BufferSoftCap int           `env:"BUFFER_SOFT_CAP" envDefault:"100"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"1s"`
	FlushTimeout  time.Duration `env:"FLUSH_TIMEOUT" envDefault:"5s"`
}

// ThresholdConfig is one asset class threshold set for the composite signal.
type ThresholdConfig struct {
	MeanReversionPct    float64 `env:"MEAN_REVERSION_PCT"`
	SpreadVolatilityPct float64 `env:"SPREAD_VOLATILITY_PCT"`
	TrendPct            float64 `env:"TREND_PCT"`
	MaxTxCost           float64 `env:"MAX_TX_COST"`
}

// AnalyticsConfig controls the rolling analytics engine.
type AnalyticsConfig struct {
	FreshnessThreshold  time.Duration `env:"FRESHNESS_THRESHOLD" envDefault:"60s"`
	MeanReversionWindow int           `env:"MEAN_REVERSION_WINDOW" envDefault:"50"`
	SpreadWindow        int           `env:"SPREAD_WINDOW" envDefault:"100"`
	TrendWindow         int           `env:"TREND_WINDOW" envDefault:"200"`
	FixedCarryCost      float64       `env:"FIXED_CARRY_COST" envDefault:"0.10"`

	Equity    ThresholdConfig `envPrefix:"EQUITY_"`
	Commodity ThresholdConfig `envPrefix:"COMMODITY_"`
	Index     ThresholdConfig `envPrefix:"INDEX_"`
}

// TradingConfig controls the position lifecycle manager.
type TradingConfig struct {
	InitialCapital   float64       `env:"INITIAL_CAPITAL" envDefault:"10000"`
	RiskPerTrade     float64       `env:"RISK_PER_TRADE" envDefault:"0.02"`
	TakeProfitPct    float64       `env:"TAKE_PROFIT_PCT" envDefault:"0.005"`
	StopLossPct      float64       `env:"STOP_LOSS_PCT" envDefault:"0.01"`
	MaxPositions     int           `env:"MAX_POSITIONS" envDefault:"4"`
	BrokerMaxRetries int           `env:"BROKER_MAX_RETRIES" envDefault:"3"`
	EvalInterval     time.Duration `env:"EVAL_INTERVAL" envDefault:"1s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyThresholdDefaults()

	return cfg, nil
}

// applyThresholdDefaults fills zero-value threshold sets with the hand-tuned
// per-class defaults. env/v11 cannot express different defaults per prefix on
// a shared struct, so the fallback lives here.
func (c *Config) applyThresholdDefaults() {
	if c.Analytics.Equity == (ThresholdConfig{}) {
		c.Analytics.Equity = ThresholdConfig{
			MeanReversionPct:    -0.1,
			SpreadVolatilityPct: 30.0,
			TrendPct:            0.05,
			MaxTxCost:           5.0,
		}
	}
	if c.Analytics.Commodity == (ThresholdConfig{}) {
		c.Analytics.Commodity = ThresholdConfig{
			MeanReversionPct:    -0.2,
			SpreadVolatilityPct: 50.0,
			TrendPct:            0.1,
			MaxTxCost:           20.0,
		}
	}
	if c.Analytics.Index == (ThresholdConfig{}) {
		c.Analytics.Index = ThresholdConfig{
			MeanReversionPct:    -0.2,
			SpreadVolatilityPct: 50.0,
			TrendPct:            0.1,
			MaxTxCost:           20.0,
		}
	}
}
