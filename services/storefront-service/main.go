package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/api"
	"github.com/ashendes/wigshop/internal/config"
	"github.com/ashendes/wigshop/internal/logging"
	"github.com/ashendes/wigshop/internal/store"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := logging.Configure(cfg.Log.Level); err != nil {
		log.WithError(err).Warn("Invalid log level, using info")
	}

	st, err := store.Open(context.Background(), &cfg.Store)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	defer st.Close()

	srv, err := api.New(st, cfg)
	if err != nil {
		log.Fatal("Failed to set up storefront: ", err)
	}

	log.WithFields(log.Fields{
		"addr":          cfg.Server.StorefrontAddr,
		"store":         cfg.Store.Driver,
		"schedule":      cfg.Pricing.Schedule,
		"step_schedule": cfg.Pricing.StepSchedule,
	}).Info("Storefront Service starting")

	if err := srv.Start(cfg.Server.StorefrontAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
