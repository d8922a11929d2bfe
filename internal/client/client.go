package client

import (
	"log/slog"
	"net/http"
	"time"

	"dealfinder/internal/client/httpc"
	"dealfinder/internal/client/transport"
)

type Transport = transport.Transport

type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Retries    int
	Workers    int

	BaseDelay time.Duration
	MaxDelay  time.Duration

	Logger *slog.Logger
}

// Build returns the layered transport. When HTTPClient is nil a client with
// Timeout is created.
func Build(opts Options) (Transport, error) {
	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient(opts.Timeout)
	}
	return transport.Build(transport.Options{
		HTTPClient:  hc,
		Retries:     opts.Retries,
		Concurrency: opts.Workers,
		BaseDelay:   opts.BaseDelay,
		MaxDelay:    opts.MaxDelay,
		Logger:      opts.Logger,
	})
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return httpc.New(httpc.Options{Timeout: timeout})
}
