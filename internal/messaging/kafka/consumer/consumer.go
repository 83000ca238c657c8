package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one message. A nil return commits the offset; an error
// leaves the message uncommitted so it is retried on the next fetch.
type Handler func(ctx context.Context, msg kafkago.Message) error

// Consume runs a fetch/handle/commit loop until the context is cancelled.
func Consume(ctx context.Context, reader *kafkago.Reader, handler Handler, logger *zap.Logger) {
	log := logger.Named("kafka.consumer")
	log.Info("consumer started", zap.String("topic", reader.Config().Topic))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handler(ctx, msg); err != nil {
			log.Error("handle message failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}
