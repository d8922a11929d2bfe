package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dealfinder/internal/bootstrap"
	"dealfinder/internal/catalog"
	"dealfinder/internal/config"
	"dealfinder/internal/domain/models"
	httpserver "dealfinder/internal/http-server"
	"dealfinder/internal/http-server/middleware"
	"dealfinder/internal/logger"
	"dealfinder/internal/orders"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		host       = flag.String("host", "", "override host")
		port       = flag.Int("port", 0, "override port")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
		Service:   "dealfinder-api",
	})
	slog.SetDefault(log)

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	cat, err := catalog.New(catalog.SeedDeals)
	if err != nil {
		log.Error("load catalog failed", "err", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "deals", cat.Len(), "stores", len(cat.Stores()))

	repo, closeRepo, err := bootstrap.BuildOrders(context.Background(), cfg, log)
	if err != nil {
		log.Error("open order store failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn("close order store", "err", err)
		}
	}()

	user := models.User{UserID: cfg.User.ID, Name: cfg.User.Name, Email: cfg.User.Email}
	orderSvc := orders.NewService(cat, repo, user, log)

	api := httpserver.New(log)
	api.RegisterRoutes(httpserver.Deps{
		Catalog: cat,
		Orders:  orderSvc,
		User:    user,
		Faults: middleware.FaultOptions{
			Mode:              cfg.Faults.Mode,
			RateLimitAfter:    cfg.Faults.RateLimitAfter,
			ServerErrorRate:   cfg.Faults.ServerErrorRate,
			RetryAfterSeconds: cfg.Faults.RetryAfterSeconds,
		},
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("api started", "addr", addr, "faults", cfg.Faults.Mode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", "signal", sig.String())

		// let in-flight requests finish
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}
		log.Info("server stopped gracefully")

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("server closed")
			return
		}
		log.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}
