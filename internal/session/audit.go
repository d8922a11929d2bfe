package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/proof"
)

// AuditEntry is the verification outcome for one deal.
type AuditEntry struct {
	DealID string       `json:"dealId"`
	Status proof.Status `json:"status"`
	Err    string       `json:"error,omitempty"`
}

type AuditReport struct {
	Entries  []AuditEntry `json:"entries"`
	Verified int          `json:"verified"`
	Mismatch int          `json:"mismatch"`
	Unknown  int          `json:"unknown"`
}

// AuditProofs verifies the proof of every deal in a freshly fetched pool
// using up to workers concurrent fetches. Per-deal failures are recorded as
// Unknown and do not stop the audit. It takes no staleness ticket and leaves
// all session state, the pool included, untouched, so it never supersedes
// an interactive request.
func (s *Session) AuditProofs(ctx context.Context, workers int) (AuditReport, error) {
	if workers <= 0 {
		workers = 4
	}

	pool, err := s.fetchPool(ctx)
	if err != nil {
		return AuditReport{}, err
	}

	ids := make(chan string)
	results := make(chan AuditEntry, len(pool))
	var checked atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				results <- s.auditOne(ctx, id)
				checked.Add(1)
			}
		}()
	}

feed:
	for _, d := range pool {
		select {
		case ids <- d.DealID:
		case <-ctx.Done():
			break feed
		}
	}
	close(ids)
	wg.Wait()
	close(results)

	var rep AuditReport
	for e := range results {
		rep.Entries = append(rep.Entries, e)
		switch e.Status {
		case proof.Verified:
			rep.Verified++
		case proof.Mismatch:
			rep.Mismatch++
		default:
			rep.Unknown++
		}
	}
	sort.Slice(rep.Entries, func(i, j int) bool { return rep.Entries[i].DealID < rep.Entries[j].DealID })

	s.log.Info("proof audit done",
		"deals", len(pool),
		"checked", checked.Load(),
		"verified", rep.Verified,
		"mismatch", rep.Mismatch,
		"unknown", rep.Unknown,
	)

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func (s *Session) auditOne(ctx context.Context, dealID string) AuditEntry {
	p, err := s.api.GetProof(ctx, dealID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Warn("get proof failed", "deal_id", dealID, "err", err)
		}
		return AuditEntry{DealID: dealID, Status: proof.Unknown, Err: err.Error()}
	}
	return AuditEntry{DealID: dealID, Status: proof.Verify(&p)}
}
