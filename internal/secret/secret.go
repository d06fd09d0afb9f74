// Package secret generates random secrets and computes password metadata:
// an entropy estimate and its strength classification.
//
// Entropy is estimated as length × log2(pool), where pool is the combined
// size of the character classes present in the value (26 lowercase, 26
// uppercase, 10 digits, 33 symbols). The bucket boundaries are stable so
// round-trip tests stay deterministic:
//
//	entropy <  28  → WEAK
//	entropy <  36  → FAIR
//	entropy <  60  → GOOD
//	entropy < 100  → STRONG
//	otherwise      → EXCELLENT
package secret

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"strings"
)

// Strength is an ordered classification bucket for password entropy.
type Strength string

const (
	StrengthWeak      Strength = "WEAK"
	StrengthFair      Strength = "FAIR"
	StrengthGood      Strength = "GOOD"
	StrengthStrong    Strength = "STRONG"
	StrengthExcellent Strength = "EXCELLENT"
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()-_=+[]{}|;:,./<>?~"
)

// Pool sizes used by the entropy estimate. The symbol pool is the count of
// printable ASCII punctuation, not the generator's own symbol set.
const (
	poolLower   = 26
	poolUpper   = 26
	poolDigits  = 10
	poolSymbols = 33
)

// Entropy estimates the bits of entropy of a value from its length and the
// diversity of character classes it uses. An empty value has zero entropy.
func Entropy(value string) float64 {
	if value == "" {
		return 0
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	pool := 0
	if hasLower {
		pool += poolLower
	}
	if hasUpper {
		pool += poolUpper
	}
	if hasDigit {
		pool += poolDigits
	}
	if hasSymbol {
		pool += poolSymbols
	}

	return float64(len(value)) * math.Log2(float64(pool))
}

// Classify buckets an entropy estimate into the ordered strength scale.
func Classify(entropy float64) Strength {
	switch {
	case entropy < 28:
		return StrengthWeak
	case entropy < 36:
		return StrengthFair
	case entropy < 60:
		return StrengthGood
	case entropy < 100:
		return StrengthStrong
	default:
		return StrengthExcellent
	}
}

// Policy configures secret generation.
type Policy struct {
	Length  int
	Letters bool
	Digits  bool
	Symbols bool
}

// DefaultPolicy returns the generation policy used when the caller does not
// supply one: 24 characters drawn from letters, digits and symbols.
func DefaultPolicy() Policy {
	return Policy{Length: 24, Letters: true, Digits: true, Symbols: true}
}

// Generator produces random secrets from crypto/rand.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateSecret returns a random secret satisfying the policy. Every
// requested character class is guaranteed to be present in the result.
func (g *Generator) GenerateSecret(ctx context.Context, policy Policy) (string, error) {
	if policy.Length <= 0 {
		return "", errors.New("secret length must be positive")
	}

	var charset string
	if policy.Letters {
		charset += lowercase + uppercase
	}
	if policy.Digits {
		charset += digits
	}
	if policy.Symbols {
		charset += symbols
	}
	if charset == "" {
		return "", errors.New("no character class selected")
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		result := make([]byte, policy.Length)
		for i := range result {
			idx, err := randomInt(len(charset))
			if err != nil {
				return "", err
			}
			result[i] = charset[idx]
		}

		if meetsPolicy(string(result), policy) {
			return string(result), nil
		}
	}
}

// meetsPolicy checks that every requested character class occurs in the value.
func meetsPolicy(value string, policy Policy) bool {
	hasLetter := !policy.Letters
	hasDigit := !policy.Digits
	hasSymbol := !policy.Symbols

	for _, r := range value {
		switch {
		case strings.ContainsRune(lowercase, r) || strings.ContainsRune(uppercase, r):
			hasLetter = true
		case strings.ContainsRune(digits, r):
			hasDigit = true
		case strings.ContainsRune(symbols, r):
			hasSymbol = true
		}
	}

	return hasLetter && hasDigit && hasSymbol
}

// randomInt returns a cryptographically secure integer in [0, max).
func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
