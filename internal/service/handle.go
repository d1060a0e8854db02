package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
)

const (
	handleFallback    = "user"
	handleMaxBase     = 20
	handleSuffixLen   = 6
	handleMaxAttempts = 10

	// No vowels or ambiguous glyphs (0/o, 1/l/i), so suffixes never spell
	// words and read unambiguously.
	suffixAlphabet = "bcdfghjklmnpqrstvwxyz23456789"
)

// AllocateHandle derives a unique handle from base. The bare sanitized base is
// tried first; if taken, dot-suffixed candidates follow until exists reports a
// free one or the attempt budget runs out. The caller is expected to run this
// and the subsequent insert in one transaction, with the unique index as the
// final backstop against races.
func AllocateHandle(base string, exists func(candidate string) (bool, error)) (string, error) {
	sanitized := SanitizeHandle(base)

	taken, err := exists(sanitized)
	if err != nil {
		return "", err
	}
	if !taken {
		return sanitized, nil
	}

	for i := 0; i < handleMaxAttempts; i++ {
		suffix, err := randomSuffix(handleSuffixLen)
		if err != nil {
			return "", err
		}
		candidate := sanitized + "." + suffix

		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperr.AllocationExhausted(base)
}

// SanitizeHandle lowercases base, strips everything outside [a-z0-9] and caps
// the length. An input with nothing usable falls back to a generic stem.
func SanitizeHandle(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		s = handleFallback
	}
	if len(s) > handleMaxBase {
		s = s[:handleMaxBase]
	}
	return s
}

func randomSuffix(n int) (string, error) {
	max := big.NewInt(int64(len(suffixAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = suffixAlphabet[idx.Int64()]
	}
	return string(out), nil
}
