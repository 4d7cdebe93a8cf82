package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/slotbooking/api"
	"github.com/Domenick1991/slotbooking/config"
	"github.com/Domenick1991/slotbooking/internal/bootstrap"
	"github.com/Domenick1991/slotbooking/internal/cache"
	"github.com/Domenick1991/slotbooking/internal/invoice"
	"github.com/Domenick1991/slotbooking/internal/kafka"
	"github.com/Domenick1991/slotbooking/internal/logger"
	"github.com/Domenick1991/slotbooking/internal/payment"
	"github.com/Domenick1991/slotbooking/internal/service/reservation"
	"github.com/Domenick1991/slotbooking/internal/service/slots"
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

	gate := payment.NewGate(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.Currency)
	reservationOpts := []reservation.ReservationServiceOption{
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		reservation.WithReconciliationTopic(cfg.Kafka.ReconciliationTopic),
	}
	var slotCache slots.SlotCache

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.SlotsTTL())
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			logrus.Warnf("redis unavailable, running without slot cache and payment claims: %v", err)
		} else {
			slotCache = redisCache
			reservationOpts = append(reservationOpts,
				reservation.WithCache(redisCache),
				reservation.WithClaimLocker(redisCache, cfg.Payment.ClaimTTL()),
			)
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			logrus.Warnf("kafka check failed, events may be lost: %v", err)
		}
		cancel()
		reservationOpts = append(reservationOpts, reservation.WithProducer(producer, cfg.Kafka.ReservationTopic))
	}

	reservationService := reservation.NewReservationService(storage.Slots, storage.Bookings, gate, reservationOpts...)
	slotService := slots.NewSlotService(storage.Slots, slotCache)

	if err := bootstrap.Run(ctx, cfg, api.RouterDeps{
		Reservations: reservationService,
		Slots:        slotService,
		Invoices:     invoice.NewTextRenderer(cfg.Payment.Currency, cfg.Worker.EmailFrom),
		Verifier:     api.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	}); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
