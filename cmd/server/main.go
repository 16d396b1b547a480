package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/httpapi"
	"github.com/flickrumble/backend/internal/hub"
)

func main() {
	_ = godotenv.Load() // .env is optional

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.FromEnv()

	ctx := context.Background()
	h := hub.NewHub(ctx, cfg, log)

	handler := httpapi.SetupRoutes(h, log)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
