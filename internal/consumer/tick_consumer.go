package consumer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/xyVar/KLDAFinTech/internal/usecase/ingest"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
)

// TickConsumer reads raw tick events from the feed topic and submits them to
// the ingestion boundary. Durability is the flusher's job, so messages are
// committed as soon as they are staged; a rejected tick is committed too,
// redelivery would only reject it again.
type TickConsumer struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface

	ingestUsecase *ingest.Usecase
	msgChan       chan kafka.Message
}

// NewTickConsumer creates a new TickConsumer.
func NewTickConsumer(cfg config.FeedKafkaConfig, l logger.Interface, ingestUsecase *ingest.Usecase) *TickConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &TickConsumer{
		kafkaReader:   kafkaReader,
		logger:        l,
		ingestUsecase: ingestUsecase,
		msgChan:       make(chan kafka.Message),
	}
}

// Start reads from the feed topic until the context is cancelled. Start is
// the only sender on the staging channel and closes it on return, which is
// what releases Subscribe during shutdown.
func (c *TickConsumer) Start(ctx context.Context) {
	c.logger.InfoContext(ctx, "starting tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_start",
	})
	defer close(c.msgChan)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "context done", logger.Field{
				Key:   "action",
				Value: "tick_consumer_stop",
			})
			return
		default:
			msg, err := c.kafkaReader.ReadMessage(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "read_message",
				})
				continue
			}

			c.msgChan <- msg
		}
	}
}

// Stop stops the TickConsumer.
func (c *TickConsumer) Stop() error {
	c.logger.InfoContext(context.Background(), "stopping tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_stop",
	})
	return c.kafkaReader.Close()
}

// Subscribe consumes staged messages and submits them for ingestion.
func (c *TickConsumer) Subscribe(ctx context.Context) {
	c.logger.InfoContext(ctx, "subscribing to tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_subscribe",
	})

	for msg := range c.msgChan {
		var raw ingest.RawTick
		if err := json.Unmarshal(msg.Value, &raw); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "unmarshal_tick",
			})
		} else if err := c.ingestUsecase.Submit(ctx, raw); err != nil {
			c.logger.DebugContext(ctx, "tick not accepted", logger.Field{
				Key:   "action",
				Value: "submit_tick",
			}, logger.Field{
				Key:   "symbol",
				Value: raw.Symbol,
			})
		}

		if err := c.kafkaReader.CommitMessages(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_message",
			})
		}
	}
}
