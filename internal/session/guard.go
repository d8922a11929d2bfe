package session

import (
	"context"
	"sync"

	"dealfinder/internal/domain/models"
)

// Ticket identifies one asynchronous request issued through a Guard.
type Ticket uint64

// Guard drops late responses. Each call to Begin supersedes every earlier
// ticket; Commit applies an update only for the newest ticket.
type Guard struct {
	mu  *sync.Mutex
	gen uint64
}

func newGuard(mu *sync.Mutex) *Guard {
	return &Guard{mu: mu}
}

func (g *Guard) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	return Ticket(g.gen)
}

// Commit runs apply while holding the session lock, unless t has been
// superseded or ctx is done, in which case it returns ErrStale.
func (g *Guard) Commit(ctx context.Context, t Ticket, apply func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if uint64(t) != g.gen || ctx.Err() != nil {
		return models.ErrStale
	}
	if apply != nil {
		apply()
	}
	return nil
}
