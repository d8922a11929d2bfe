package transport

import (
	"fmt"
	"io"
	"net/http"
	"sync"
)

// ConcurrencyTransport bounds the number of requests in flight. A slot is
// held until the response body is closed, so a caller that is still reading
// a large deal list counts against the limit. Waiting for a slot gives up
// when the request context is done.
type ConcurrencyTransport struct {
	Base  Transport
	slots chan struct{}
}

func NewConcurrencyTransport(base Transport, n int) *ConcurrencyTransport {
	if n <= 0 {
		n = 1
	}
	return &ConcurrencyTransport{Base: base, slots: make(chan struct{}, n)}
}

// InFlight is the number of slots currently taken.
func (t *ConcurrencyTransport) InFlight() int { return len(t.slots) }

func (t *ConcurrencyTransport) Do(req *http.Request) (*http.Response, error) {
	select {
	case t.slots <- struct{}{}:
	case <-req.Context().Done():
		return nil, fmt.Errorf("wait for request slot: %w", req.Context().Err())
	}

	resp, err := t.Base.Do(req)
	if err != nil || resp == nil || resp.Body == nil {
		<-t.slots
		return resp, err
	}

	resp.Body = &releasingBody{ReadCloser: resp.Body, release: func() { <-t.slots }}
	return resp, nil
}

type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}
