package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	codePrefix   = "COOKING-"
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PickupCode returns a short code shown to staff at pickup. Codes are not
// checked for collisions.
func PickupCode() (string, error) {
	b := make([]byte, codeLength)
	base := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("pickup code: %w", err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return codePrefix + string(b), nil
}

func NewOrderID() string {
	return "order-" + uuid.NewString()
}
