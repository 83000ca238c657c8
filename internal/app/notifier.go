package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/messaging/kafka/consumer"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/notifier"
)

// RunNotifier consumes the three notification topics and fans decisions out
// as email. One reader per topic; all share the notifier instance.
func RunNotifier(cfg *config.Config) error {
	logger := zap.L().Named("app.notifier")

	mailer := notifier.NewSMTPMailer(cfg.SMTP)
	n := notifier.New(mailer, cfg.AdminNotifyEmails)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topics := []struct {
		topic   string
		handler consumer.Handler
	}{
		{events.LeaveSubmittedTopic, n.HandleLeaveSubmitted},
		{events.LeaveDecidedTopic, n.HandleLeaveDecided},
		{events.ToilDecidedTopic, n.HandleToilDecided},
	}

	readers := make([]*kafkago.Reader, 0, len(topics))
	for _, t := range topics {
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        cfg.KafkaBrokers,
			Topic:          t.topic,
			GroupID:        "leave-tracker-notifier",
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
		readers = append(readers, reader)
		go consumer.Consume(ctx, reader, t.handler, logger)
	}
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
