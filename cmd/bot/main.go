package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/achievements"
	"github.com/scythe504/goroda-bot/internal/bot"
	"github.com/scythe504/goroda-bot/internal/catalog"
	"github.com/scythe504/goroda-bot/internal/config"
	"github.com/scythe504/goroda-bot/internal/game"
	"github.com/scythe504/goroda-bot/internal/server"
	"github.com/scythe504/goroda-bot/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()

	cities := catalog.MustLoad(cfg.CitiesPath)

	var sink internal.AchievementSink = achievements.NopSink{}
	if cfg.DatabaseURL != "" {
		migrations.Migrate(cfg.DatabaseURL)

		pgSink, err := achievements.NewPostgresSink(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to achievements database: ", err)
		}
		defer pgSink.Close()
		sink = pgSink
	} else {
		log.Println("DATABASE_URL not set, achievements are disabled")
	}

	hub := server.NewHub()
	notifier := bot.NewRetryingNotifier(hub)

	engine := game.NewEngine(cities, notifier, sink, game.Config{
		JoinDuration:       cfg.JoinDuration,
		ProgressInterval:   cfg.ProgressInterval,
		InactivityDuration: cfg.InactivityDuration,
		WinThreshold:       cfg.WinThreshold,
	})
	router := bot.NewRouter(engine, sink, notifier)

	srv := server.NewServer(cfg.ServerPort, engine, router, sink, hub)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(srv.HTTPServer().ListenAndServe())
}
