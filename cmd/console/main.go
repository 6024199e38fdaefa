package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fleetadmin/internal/config"
	"fleetadmin/internal/console/entities"
	"fleetadmin/internal/console/web"
	"fleetadmin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	srv, err := web.New(web.Config{
		APIURL:     cfg.APIURL,
		SessionTTL: cfg.SessionTTL,
		Pages:      entities.NewPages,
	})
	if err != nil {
		logrus.Fatalf("Failed to load console templates: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go srv.Sessions().Run(ctx, time.Minute)

	logrus.WithField("api", cfg.APIURL).Infof("Console listening on :%s", cfg.ConsolePort)
	if err := srv.Router().Run(":" + cfg.ConsolePort); err != nil {
		logrus.Fatalf("Console failed: %v", err)
	}
}
