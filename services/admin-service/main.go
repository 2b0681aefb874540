package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/admin"
	"github.com/ashendes/wigshop/internal/client"
	"github.com/ashendes/wigshop/internal/config"
	"github.com/ashendes/wigshop/internal/logging"
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

	storefront := client.New(client.Options{
		BaseURL:      cfg.Admin.StorefrontURL,
		Timeout:      cfg.Admin.Timeout,
		BulkheadSize: cfg.Admin.BulkheadSize,
		BulkheadWait: cfg.Admin.BulkheadWait,
		Service:      admin.ServiceName,
	})
	srv := admin.NewServer(storefront)

	log.WithFields(log.Fields{
		"addr":           cfg.Server.AdminAddr,
		"storefront_url": cfg.Admin.StorefrontURL,
	}).Info("Admin Service starting")

	if err := srv.Start(cfg.Server.AdminAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
