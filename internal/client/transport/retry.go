package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// RetryPolicy decides whether a finished attempt is worth repeating and how
// long to wait first.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// RetryAfterCap bounds waits requested by the server.
	RetryAfterCap time.Duration

	now    func() time.Time
	jitter func() float64
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = 300 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 8 * time.Second
	}
	if p.RetryAfterCap <= 0 {
		p.RetryAfterCap = time.Minute
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.jitter == nil {
		p.jitter = rand.Float64
	}
	return p
}

// next is called after attempt (0-based) produced resp or err.
func (p RetryPolicy) next(attempt int, resp *http.Response, err error) (time.Duration, bool) {
	if attempt >= p.MaxRetries {
		return 0, false
	}
	if err != nil {
		return p.backoff(attempt), transient(err)
	}
	if !retryableStatus(resp.StatusCode) {
		return 0, false
	}
	if d := retryAfter(resp.Header, p.now(), p.RetryAfterCap); d > 0 {
		return d, true
	}
	return p.backoff(attempt), true
}

// backoff doubles from BaseDelay up to MaxDelay with ±50% jitter.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return time.Duration(float64(d) * (0.5 + p.jitter()))
}

// RetryTransport repeats idempotent requests on 429, 5xx and network errors.
// Other methods pass through once so a lost response to POST /orders never
// turns into a second batch of orders. After the last attempt the final
// response is returned as is, letting the caller see the real status.
type RetryTransport struct {
	Base   Transport
	Policy RetryPolicy
	Log    *slog.Logger
}

func NewRetryTransport(base Transport, policy RetryPolicy, log *slog.Logger) *RetryTransport {
	if log == nil {
		log = slog.Default()
	}
	return &RetryTransport{Base: base, Policy: policy.withDefaults(), Log: log}
}

func (r *RetryTransport) Do(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) || r.Policy.MaxRetries <= 0 {
		return r.Base.Do(req)
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		try, err := cloneForRetry(req)
		if err != nil {
			return nil, err
		}

		resp, err := r.Base.Do(try)
		wait, again := r.Policy.next(attempt, resp, err)
		if !again {
			return resp, err
		}

		r.Log.Warn("retrying request",
			"method", req.Method,
			"path", req.URL.Path,
			"attempt", attempt+1,
			"max_attempts", r.Policy.MaxRetries+1,
			"wait_ms", wait.Milliseconds(),
			"reason", reason(resp, err),
		)
		discard(resp)

		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500 && code <= 599
}

// transient reports network failures; context errors are final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryAfter reads Retry-After as delta seconds or an HTTP date.
func retryAfter(h http.Header, now time.Time, limit time.Duration) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}

	var d time.Duration
	if sec, err := strconv.Atoi(v); err == nil {
		d = time.Duration(sec) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = at.Sub(now)
	}

	if d <= 0 {
		return 0
	}
	return min(d, limit)
}

func reason(resp *http.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return "status " + strconv.Itoa(resp.StatusCode)
}

func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
	_ = resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cloneForRetry gives every attempt a fresh body via GetBody.
func cloneForRetry(req *http.Request) (*http.Request, error) {
	cloned := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return cloned, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("retry %s %s: body cannot be replayed", req.Method, req.URL.Path)
	}
	b, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("retry %s %s: %w", req.Method, req.URL.Path, err)
	}
	cloned.Body = b
	return cloned, nil
}
