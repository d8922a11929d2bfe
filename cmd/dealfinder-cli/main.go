package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealfinder/internal/apis/dealsapi"
	"dealfinder/internal/bootstrap"
	"dealfinder/internal/config"
	"dealfinder/internal/domain/models"
	"dealfinder/internal/geo"
	"dealfinder/internal/logger"
	"dealfinder/internal/session"
)

const usage = `usage: dealfinder-cli [-config path] <command> [args]

commands:
  deals [-sort k] [-category c]... [-store b]... [-dietary d]... [-max p]
  deal <id>
  view [list|map]
  cart
  add <dealId> [qty]
  remove <dealId>
  checkout
  orders
  order <id>
  verify <dealId>
  audit [-workers n]
`

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config.yaml")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	// stdout carries command output
	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
		Service:   "dealfinder-cli",
		Output:    os.Stderr,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second)
	defer cancel()

	code := run(ctx, cfg, log, flag.Args(), os.Stdout)
	cancel()
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, args []string, out io.Writer) int {
	tr, err := bootstrap.BuildTransport(cfg, log)
	if err != nil {
		log.Error("build transport failed", "err", err)
		return 1
	}

	kv, closeKV, err := bootstrap.BuildKV(ctx, cfg, log)
	if err != nil {
		log.Error("open session store failed", "err", err)
		return 1
	}
	defer func() {
		if err := closeKV(); err != nil {
			log.Warn("close session store", "err", err)
		}
	}()

	s, err := session.New(session.Options{
		API:  dealsapi.New(tr, cfg.API.BaseURL, log),
		KV:   kv,
		User: models.User{UserID: cfg.User.ID, Name: cfg.User.Name, Email: cfg.User.Email},
		Ref:  geo.Point{Lat: cfg.Geo.RefLat, Lng: cfg.Geo.RefLng},
		Log:  log,
	})
	if err != nil {
		log.Error("build session failed", "err", err)
		return 1
	}

	if err := dispatch(ctx, s, args, out); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(os.Stderr, "%s\n\n%s", uerr.msg, usage)
			return 2
		}
		fmt.Fprintln(os.Stderr, describe(err))
		log.Debug("command failed", "cmd", args[0], "err", err)
		return 1
	}
	return 0
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// describe turns domain errors into one line for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, models.ErrInvalidQuantity):
		return "quantity must be at least 1"
	case errors.Is(err, models.ErrFetchFailure):
		return "could not reach the deals service: " + err.Error()
	case errors.Is(err, models.ErrStale):
		return "result superseded by a newer request"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	}
	return err.Error()
}
