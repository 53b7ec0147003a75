package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"progress-bot/internal/config"
	"progress-bot/internal/delivery"
	"progress-bot/internal/logger"
	"progress-bot/internal/service"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

// One-shot reminder run, meant to be scheduled hourly (cron or a
// scheduler job). Finds users whose reminder hour matches now and
// who have not been pinged today, and sends each a nudge.
func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	st := store.NewGorm(db)

	client := slack.NewClient(slack.Config{
		ClientID:     cfg.Slack.ClientID,
		ClientSecret: cfg.Slack.ClientSecret,
	})

	queue := delivery.NewDispatcher(cfg.Delivery.Buffer)
	queue.Start(context.Background(), cfg.Delivery.Workers)

	svc := service.New(st, client, queue)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := svc.NotifyDueUsers(ctx, time.Now()); err != nil {
		slog.Error("reminder run failed", "err", err)
		queue.Stop(10 * time.Second)
		os.Exit(1)
	}
	queue.Stop(10 * time.Second)
	slog.Info("reminder run complete")
}
