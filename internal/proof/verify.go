package proof

import (
	"strings"

	"dealfinder/internal/domain/models"
)

type Status int

const (
	Unknown Status = iota
	Verified
	Mismatch
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "Verified on-chain"
	case Mismatch:
		return "Verification mismatch"
	default:
		return "Unknown"
	}
}

// Verify recomputes the content hash from the proof's canonical message and
// compares it with the claimed one. A nil proof or one without a content
// hash cannot be judged.
func Verify(p *models.Proof) Status {
	if p == nil || p.ContentHash == "" {
		return Unknown
	}
	if strings.EqualFold(Hash(p.Canonical), p.ContentHash) {
		return Verified
	}
	return Mismatch
}

// ShortHash keeps the first head and last tail characters of h. Negative
// counts are treated as 0.
func ShortHash(h string, head, tail int) string {
	head, tail = max(head, 0), max(tail, 0)
	if len(h) <= head+tail+2 {
		return h
	}
	return h[:head] + "…" + h[len(h)-tail:]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
