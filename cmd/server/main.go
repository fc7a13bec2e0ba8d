package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flaxandteal/berlin/internal/config"
	"github.com/flaxandteal/berlin/internal/handler"
	"github.com/flaxandteal/berlin/internal/logger"
	"github.com/flaxandteal/berlin/internal/middleware"
	"github.com/flaxandteal/berlin/pkg/berlin"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("datasetPath", cfg.DatasetPath).Msg("Config loaded")

	db, err := berlin.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Dataset load failed")
	}
	db.Scoring.Threshold = cfg.ScoreThreshold
	log.Info().Int("locations", db.Store.Len()).Msg("Dataset loaded")

	searchHandler := handler.NewSearchHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", searchHandler.Health)
	mux.HandleFunc("GET /berlin/search", searchHandler.Search)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
