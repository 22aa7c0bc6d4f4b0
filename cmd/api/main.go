package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"functionhall/internal/config"
	"functionhall/internal/database"
	"functionhall/internal/logger"
	"functionhall/internal/modules/otp"
	"functionhall/internal/modules/realtime"
	"functionhall/internal/modules/upload"
	"functionhall/internal/notification"
	jwtsvc "functionhall/internal/pkg/jwt"
	"functionhall/internal/queue"
	"functionhall/internal/search"
	"functionhall/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFmt)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", "error", err)
	}

	sender := newSender(cfg)
	deps := server.Deps{
		Config: cfg,
		DB:     db,
		JWT:    jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Sender: sender,
		Hub:    realtime.NewHub(),
	}
	defer deps.Hub.Close()

	// Notifications go through RabbitMQ when configured, otherwise straight to the provider.
	var out notification.Deliverer = notification.SenderDeliverer{Sender: sender}
	if cfg.RabbitMQURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitMQURL, cfg.NotifyQueue)
		if err != nil {
			logger.Fatal("rabbitmq connect failed", "error", err)
		}
		defer pub.Close()
		out = pub
		log.Info("notifications published to rabbitmq", "queue", cfg.NotifyQueue)
	}
	dispatcher := notification.NewDispatcher(out, cfg.NotifyWorkers, cfg.NotifyTimeout)
	defer dispatcher.Close()
	deps.Notifier = dispatcher

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, phone verification disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		deps.OTPStore = otp.NewRedisStore(rdb, cfg.OTPTTL, cfg.OTPMaxAttempts)
	}
	cancel()

	if cfg.ElasticsearchURL != "" {
		idx, err := search.NewHallIndex(ctx, cfg.ElasticsearchURL, cfg.ElasticsearchIndex)
		if err != nil {
			log.Warn("elasticsearch unavailable, using database search", "error", err)
		} else {
			deps.Search = idx
		}
	}

	if cfg.ImageStorage == "cloudinary" {
		store, err := upload.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			logger.Fatal("cloudinary setup failed", "error", err)
		}
		deps.Storage = store
		log.Info("images stored in cloudinary", "folder", cfg.CloudinaryFolder)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newSender(cfg *config.Config) notification.Sender {
	if cfg.SMSProvider == "twilio" {
		return notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}
	return notification.ConsoleSender{}
}
