package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"hookrelay/internal/api"
	"hookrelay/internal/api/handlers"
	"hookrelay/internal/engine/dedup"
	"hookrelay/internal/engine/discord"
	"hookrelay/internal/engine/github"
	"hookrelay/internal/pkg/logger"
	"hookrelay/internal/platform/config"
	"hookrelay/internal/platform/database"
	"hookrelay/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Logging)

	// Delivery log is optional; without it the relay is fully stateless.
	var deliveryRepo *repositories.DeliveryRepository
	var store *dedup.Store
	healthHandler := handlers.NewHealthHandler(nil)

	if cfg.Dedup.Enabled {
		db, err := database.Open(cfg.Dedup.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open delivery log")
		}
		defer db.Close()

		deliveryRepo = repositories.NewDeliveryRepository(db)
		store, err = dedup.NewStore(cfg.Dedup.CacheSize, deliveryRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build dedup store")
		}
		healthHandler = handlers.NewHealthHandler(db)
	}

	normalizer := github.NewNormalizer(cfg.Discord.Username)
	forwarder := discord.NewForwarder(cfg.Discord.Timeout, cfg.Discord.RetryAttempts)

	deps := &api.Dependencies{
		GitHubHandler:     handlers.NewGitHubHandler(cfg.GitHub, cfg.Discord, normalizer, forwarder, store),
		HealthHandler:     healthHandler,
		DeliveriesHandler: handlers.NewDeliveriesHandler(deliveryRepo),
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().
		Str("addr", addr).
		Bool("signatures", cfg.GitHub.Secret != "").
		Bool("delivery_log", cfg.Dedup.Enabled).
		Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
