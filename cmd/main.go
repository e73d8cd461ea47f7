package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
	"github.com/soyuznik/telegram-ai-bridge/internal/bot"
	"github.com/soyuznik/telegram-ai-bridge/internal/bothelp"
	"github.com/soyuznik/telegram-ai-bridge/internal/chatapi"
	"github.com/soyuznik/telegram-ai-bridge/internal/config"
	"github.com/soyuznik/telegram-ai-bridge/internal/database"
	"github.com/soyuznik/telegram-ai-bridge/internal/health"
	"github.com/soyuznik/telegram-ai-bridge/internal/logging"
	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Init("telegram-ai-bridge", false)
		log.Fatal().Err(err).Msg("config load failed")
	}

	logging.Init("telegram-ai-bridge", cfg.Debug)

	// --- DB ---
	if cfg.DBAutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	// --- Redis ---
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	// --- Telegram ---
	tgClient := telegram.NewClient(cfg.BotToken)

	// Startup connectivity checks: a dead gateway or store halts the process.
	checkCtx, cancelCheck := context.WithTimeout(context.Background(), 10*time.Second)
	me, err := tgClient.GetMe(checkCtx)
	if err != nil {
		cancelCheck()
		log.Fatal().Err(err).Msg("telegram connectivity check failed")
	}
	if err := rdb.Ping(checkCtx).Err(); err != nil {
		cancelCheck()
		log.Fatal().Err(err).Msg("redis connectivity check failed")
	}
	cancelCheck()
	log.Info().Str("bot", me.Username).Msg("telegram connected")

	// --- Module wiring ---
	aiClient := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	history := bot.NewRedisHistory(rdb, cfg.HistoryLimit, cfg.HistoryTTL)

	botRepo := bot.NewRepo(db)
	botService := bot.NewService(botRepo, history, aiClient, tgClient)
	botHandler := bot.NewHandler(botService)

	bothelpRepo := bothelp.NewRepo(db)
	bothelpService := bothelp.NewService(bothelpRepo, tgClient)
	bothelpHandler := bothelp.NewHandler(bothelpService)

	chatHandler := chatapi.NewHandler(aiClient)
	healthHandler := health.NewHandler(db, rdb, tgClient, cfg)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	bot.RegisterRoutes(r, botHandler)
	bothelp.RegisterRoutes(r, bothelpHandler)
	chatapi.RegisterRoutes(r, chatHandler)
	health.RegisterRoutes(r, healthHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Workers ---
	summarizer := bot.NewSummarizer(botRepo, history, aiClient, cfg.SummaryInterval)
	go summarizer.Run(ctx)

	if cfg.RunMode == config.RunModeLongpoll {
		poller := telegram.NewPoller(tgClient, botService.HandleUpdate, cfg.LongpollTimeoutSec)
		go poller.Run(ctx)
	}

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("run_mode", cfg.RunMode).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
