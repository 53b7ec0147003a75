package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"progress-bot/internal/config"
	"progress-bot/internal/delivery"
	"progress-bot/internal/handler"
	"progress-bot/internal/logger"
	"progress-bot/internal/service"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

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
	if err := st.Migrate(); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	client := slack.NewClient(slack.Config{
		ClientID:     cfg.Slack.ClientID,
		ClientSecret: cfg.Slack.ClientSecret,
	})

	queue := delivery.NewDispatcher(cfg.Delivery.Buffer)
	queue.Start(context.Background(), cfg.Delivery.Workers)

	svc := service.New(st, client, queue)

	eventH := handler.NewEventHandler(svc)
	commandH := handler.NewCommandHandler(svc)
	interactH := handler.NewInteractionHandler(svc)
	oauthH := handler.NewOAuthHandler(svc, cfg.Slack.SuccessURL, cfg.Slack.ErrorURL)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "@progress is running.")
	})
	r.GET("/oauth", oauthH.Authorize)

	r.POST("/", eventH.Events)
	r.POST("/config", interactH.Interact)
	r.POST("/show-config", commandH.ShowConfig)
	r.POST("/remove", commandH.Remove)
	r.POST("/today", commandH.Today)
	r.POST("/done", commandH.Done)
	r.POST("/undo", commandH.Undo)
	r.POST("/add", commandH.Add)
	r.POST("/help", commandH.Help)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
	queue.Stop(10 * time.Second)
}
