package proof

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"dealfinder/internal/domain/models"
)

const (
	Network       = "Testnet"
	DefaultSigner = "Trusted partner"

	blockBase   = 1_000_000
	blockSpread = 50_000
	anchorSpan  = 72 * time.Hour
)

// canonicalListing is the message that gets anchored. Field order is part of
// the hash.
type canonicalListing struct {
	DealID  string  `json:"dealId"`
	StoreID string  `json:"storeId"`
	Name    *string `json:"name,omitempty"`
	Expiry  string  `json:"expiry"`
	Price   float64 `json:"price"`
}

// Canonical renders the compact listing message for d.
func Canonical(d models.Deal) (string, error) {
	msg := canonicalListing{
		DealID:  d.DealID,
		StoreID: d.StoreID,
		Expiry:  d.ExpiryTimestamp,
		Price:   d.DiscountedPrice,
	}
	if d.Item != nil {
		name := d.Item.Name
		msg.Name = &name
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return "", fmt.Errorf("canonical listing %s: %w", d.DealID, err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Hash is the 0x-prefixed lowercase hex SHA-256 of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "0x" + hex.EncodeToString(sum[:])
}

// Build derives the anchoring record for d. Everything except the anchor
// timestamp is a pure function of the deal.
func Build(d models.Deal, now time.Time) (models.Proof, error) {
	canonical, err := Canonical(d)
	if err != nil {
		return models.Proof{}, err
	}

	var base int64
	for i := 0; i < len(d.DealID); i++ {
		base += int64(d.DealID[i])
	}

	signer := DefaultSigner
	if d.Store != nil && d.Store.Brand != "" {
		signer = d.Store.Brand
	}

	offset := time.Duration(base%anchorSpan.Milliseconds()) * time.Millisecond

	return models.Proof{
		Network:         Network,
		DealID:          d.DealID,
		ContentHash:     Hash(canonical),
		TxHash:          Hash(d.DealID),
		BlockNumber:     blockBase + base%blockSpread,
		AnchorTimestamp: now.Add(-offset).UTC(),
		Signer:          signer,
		Canonical:       canonical,
	}, nil
}
