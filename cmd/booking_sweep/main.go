package main

import (
	"context"
	"time"

	"functionhall/internal/config"
	"functionhall/internal/database"
	"functionhall/internal/logger"
	"functionhall/internal/modules/booking"
)

// booking_sweep completes confirmed bookings whose event date has passed.
// Run it daily from cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFmt)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	svc := booking.NewService(db, nil, nil)
	n, err := svc.CompletePast(ctx, time.Now())
	if err != nil {
		logger.Fatal("booking sweep failed", "completed", n, "error", err)
	}
	logger.Get().Info("booking sweep completed", "completed", n)
}
