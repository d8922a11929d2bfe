package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Transport is the outbound seam shared by the API client and its layers.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	HTTPClient  *http.Client
	Retries     int
	Concurrency int           // max in-flight requests, 0 means unlimited
	BaseDelay   time.Duration // backoff base
	MaxDelay    time.Duration // backoff cap
	Logger      *slog.Logger
}

func (o Options) validate() error {
	switch {
	case o.HTTPClient == nil:
		return errors.New("transport: nil http client")
	case o.Concurrency < 0:
		return fmt.Errorf("transport: concurrency %d < 0", o.Concurrency)
	case o.Retries < 0:
		return fmt.Errorf("transport: retries %d < 0", o.Retries)
	}
	return nil
}

// Build stacks the layers outermost first: concurrency limit, retry, logging,
// then the plain client.
func Build(opts Options) (Transport, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var t Transport = &HTTPTransport{Client: opts.HTTPClient}
	t = &LogTransport{Base: t, Log: opts.Logger}

	if opts.Retries > 0 {
		t = NewRetryTransport(t, RetryPolicy{
			MaxRetries: opts.Retries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
		}, opts.Logger)
	}
	if opts.Concurrency > 0 {
		t = NewConcurrencyTransport(t, opts.Concurrency)
	}
	return t, nil
}

// HTTPTransport is the innermost layer.
type HTTPTransport struct {
	Client *http.Client
}

func (h *HTTPTransport) Do(req *http.Request) (*http.Response, error) {
	return h.Client.Do(req)
}

// LogTransport writes one debug line per round trip.
type LogTransport struct {
	Base Transport
	Log  *slog.Logger
}

func (t *LogTransport) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Base.Do(req)
	ms := time.Since(start).Milliseconds()

	if err != nil {
		t.Log.Debug("http request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", ms,
			"err", err,
		)
		return nil, err
	}

	t.Log.Debug("http request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration_ms", ms,
	)
	return resp, nil
}
