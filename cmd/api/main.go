package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lelikelen/dashboard-backend/api/routes"
	"github.com/lelikelen/dashboard-backend/internal/chat"
	"github.com/lelikelen/dashboard-backend/internal/inventory"
	"github.com/lelikelen/dashboard-backend/internal/schedule"
	"github.com/lelikelen/dashboard-backend/internal/stats"
	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	"github.com/lelikelen/dashboard-backend/pkg/config"
	"github.com/lelikelen/dashboard-backend/pkg/db"
	"github.com/lelikelen/dashboard-backend/pkg/llm"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
	"github.com/lelikelen/dashboard-backend/pkg/metrics"
	"github.com/lelikelen/dashboard-backend/pkg/migrate"
	"github.com/lelikelen/dashboard-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	hub := changefeed.NewHub()
	defer hub.Close()

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	listener, err := changefeed.NewListener(cfg.DB.DSN, hub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to start change feed listener", err)
		os.Exit(1)
	}
	defer listener.Close()
	go listener.Run(feedCtx)

	var completer chat.Completer
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.Config{
			Endpoint: cfg.LLM.Endpoint,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
		}, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create llm client", err)
			os.Exit(1)
		}
		completer = client
	} else {
		logg.Warn(context.Background(), "no llm api key configured, chat sends will fail")
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	chatMetrics := metrics.NewChatMetrics(prometheus.DefaultRegisterer)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	scheduleRepo := schedule.NewRepository(dbClient.DB())
	chatRepo := chat.NewRepository(dbClient.DB())

	scheduleLimits := schedule.Limits{
		Upcoming: cfg.Chat.UpcomingLimit,
		Past:     cfg.Chat.PastServicesLimit,
	}

	inventoryWatcher := inventory.NewWatcher(inventoryRepo, hub, logg)
	inventoryWatcher.Start(context.Background())
	defer inventoryWatcher.Stop()

	scheduleWatcher := schedule.NewWatcher(scheduleRepo, scheduleLimits, hub, logg)
	scheduleWatcher.Start(context.Background())
	defer scheduleWatcher.Stop()

	inventoryService, err := inventory.NewService(inventoryRepo, inventoryWatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	scheduleService, err := schedule.NewService(scheduleRepo, scheduleLimits, scheduleWatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create schedule service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(inventoryRepo, scheduleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chatRepo, inventoryRepo, scheduleRepo, completer, cfg.Chat, chatMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Hub:       hub,
			Metrics:   httpMetrics,
			Inventory: inventoryService,
			Schedule:  scheduleService,
			Stats:     statsService,
			Chat:      chatService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
