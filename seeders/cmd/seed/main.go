package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"repair-desk/internal/backend/rpc"
	"repair-desk/internal/entities"
	"repair-desk/pkg/config"
	applogger "repair-desk/pkg/logger"
	"repair-desk/pkg/service"
	"repair-desk/seeders"
)

// seed fills a running backend with the demo requests. The admin principal
// must already hold the admin role there.
func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	url := flag.String("url", cfg.Backend.URL, "backend base URL")
	admin := flag.String("admin", "", "principal holding the admin role")
	connectTimeout := flag.Duration("connect-timeout", 30*time.Second, "how long to wait for the backend")
	flag.Parse()

	if *admin == "" {
		logger.Error("seed: -admin is required")
		flag.PrintDefaults()
		os.Exit(2)
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	token, err := jwtSvc.GenerateToken(*admin)
	if err != nil {
		logger.Fatal("seed: cannot issue admin token", zap.Error(err))
	}

	client := rpc.New(*url, cfg.Backend.RequestTimeout, cfg.Backend.ReadRetryWindow, logger)
	ctx, cancel := context.WithTimeout(context.Background(), *connectTimeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		logger.Fatal("seed: backend unreachable", zap.String("url", *url), zap.Error(err))
	}

	caller := entities.Caller{Principal: entities.Principal(*admin), Token: token}
	if _, err := seeders.SeedDemo(context.Background(), client, caller, logger); err != nil {
		logger.Fatal("seed: failed", zap.Error(err))
	}
}
