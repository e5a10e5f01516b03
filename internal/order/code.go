package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Excludes 0/O and 1/I so codes survive being read aloud or typed.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	orderCodePrefix = "VL"
	orderCodeLength = 6
	proofCodeLength = 12
)

// NormalizeCode keeps ASCII letters and digits, upper-cased.
func NormalizeCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	return b.String()
}

func NewOrderCode() (string, error) {
	s, err := randomCode(orderCodeLength)
	if err != nil {
		return "", err
	}
	return orderCodePrefix + s, nil
}

// NewProofCode returns the proof-of-delivery secret shown only to the buyer.
func NewProofCode() (string, error) {
	return randomCode(proofCodeLength)
}

func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random code: %w", err)
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
