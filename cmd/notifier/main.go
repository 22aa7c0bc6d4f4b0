package main

import (
	"context"
	"os/signal"
	"syscall"

	"functionhall/internal/config"
	"functionhall/internal/logger"
	"functionhall/internal/notification"
	"functionhall/internal/queue"
)

// notifier drains the notifications queue and delivers each message through
// the configured SMS provider.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFmt)
	if cfg.RabbitMQURL == "" {
		logger.Fatal("RABBITMQ_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := queue.NewConsumer(cfg.RabbitMQURL, cfg.NotifyQueue)
	if err != nil {
		logger.Fatal("rabbitmq connect failed", "error", err)
	}
	defer consumer.Close()

	var sender notification.Sender = notification.ConsoleSender{}
	if cfg.SMSProvider == "twilio" {
		sender = notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}
	out := notification.SenderDeliverer{Sender: sender}

	logger.Get().Info("notifier consuming", "queue", cfg.NotifyQueue, "provider", cfg.SMSProvider)
	err = consumer.Run(ctx, func(ctx context.Context, msg notification.Message) error {
		sendCtx, cancel := context.WithTimeout(ctx, cfg.NotifyTimeout)
		defer cancel()
		msg.To = notification.FormatPhone(msg.To)
		return out.Deliver(sendCtx, msg)
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", "error", err)
	}
}
