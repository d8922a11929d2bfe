package middleware

import (
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"

	"dealfinder/internal/http-server/respond"
)

const (
	FaultsNormal      = "normal"
	FaultsRateLimit   = "rate_limit"
	FaultsServerError = "server_error"
)

// FaultOptions configures simulated failures for exercising client error
// paths.
type FaultOptions struct {
	Mode              string
	RateLimitAfter    int
	ServerErrorRate   float64
	RetryAfterSeconds int

	// Rand returns a value in [0, 1). Defaults to math/rand.
	Rand func() float64
	// Skip exempts paths, e.g. health checks.
	Skip func(*http.Request) bool
}

// Faults injects 429 or 500 responses according to opts.Mode. In
// rate_limit mode the first RateLimitAfter requests pass.
func Faults(opts FaultOptions, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	if opts.RetryAfterSeconds <= 0 {
		opts.RetryAfterSeconds = 5
	}

	var served atomic.Int64

	return func(next http.Handler) http.Handler {
		if opts.Mode == "" || opts.Mode == FaultsNormal {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Skip != nil && opts.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			switch opts.Mode {
			case FaultsRateLimit:
				n := served.Add(1)
				if n > int64(opts.RateLimitAfter) {
					log.Warn("fault injected", "mode", opts.Mode, "requests", n, "limit", opts.RateLimitAfter)
					w.Header().Set("Retry-After", strconv.Itoa(opts.RetryAfterSeconds))
					respond.WriteError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
					return
				}
			case FaultsServerError:
				if opts.Rand() < opts.ServerErrorRate {
					log.Warn("fault injected", "mode", opts.Mode, "rate", opts.ServerErrorRate)
					respond.WriteError(w, http.StatusInternalServerError, "internal_error", "simulated server error")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
