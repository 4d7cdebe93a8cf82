package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/slotbooking/config"
	"github.com/Domenick1991/slotbooking/internal/bootstrap"
	"github.com/Domenick1991/slotbooking/internal/email"
	"github.com/Domenick1991/slotbooking/internal/kafka"
	"github.com/Domenick1991/slotbooking/internal/logger"
	"github.com/Domenick1991/slotbooking/internal/service/audit"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		logrus.Fatalf("setup logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("open storage: %v", err)
	}
	defer storage.Close()

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, cfg.Kafka.ReconciliationTopic)
		defer consumer.Close()

		sender := email.NewSender(cfg.Worker.EmailFrom)
		go func() {
			err := consumer.Consume(ctx, func(ctx context.Context, event kafka.ReservationEvent) error {
				if event.Type == kafka.EventReconciliationRequired {
					logrus.WithFields(logrus.Fields{
						"slot_id":    event.SlotID,
						"caller_id":  event.CallerID,
						"order_id":   event.OrderID,
						"payment_id": event.PaymentID,
						"amount":     event.Amount,
						"currency":   event.Currency,
					}).Errorf("payment needs reconciliation: %s", event.Reason)
				}
				return sender.Send(ctx, event)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logrus.Errorf("consumer stopped: %v", err)
			}
		}()
	} else {
		logrus.Warn("no kafka brokers configured, notifications disabled")
	}

	auditor := audit.NewAuditor(storage.Slots, storage.Bookings)
	logrus.WithField("interval", cfg.Worker.AuditInterval()).Info("worker started")
	auditor.Run(ctx, cfg.Worker.AuditInterval())
	logrus.Info("worker stopped")
}
