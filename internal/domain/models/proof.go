package models

import "time"

// Proof is the listing record a deal is claimed to be anchored with.
type Proof struct {
	Network         string    `json:"network"`
	DealID          string    `json:"dealId"`
	ContentHash     string    `json:"contentHash"`
	TxHash          string    `json:"txHash"`
	BlockNumber     int64     `json:"blockNumber"`
	AnchorTimestamp time.Time `json:"anchorTimestamp"`
	Signer          string    `json:"signer"`
	Canonical       string    `json:"canonical"`
}
