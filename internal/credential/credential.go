// Package credential generates and hashes the API keys presented by
// tenants and platform integrations.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Kind distinguishes tenant keys from platform-integration keys. The prefix
// alone tells an operator what a leaked key can reach.
type Kind string

const (
	KindTenant      Kind = "tenant"
	KindIntegration Kind = "integration"
)

const (
	prefixTenant      = "wo_live_"
	prefixIntegration = "wo_int_"

	// 32 bytes of entropy, base62-encoded.
	payloadBytes = 32

	previewEdge = 4
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generated is the one-time result of creating a credential. Plaintext is
// returned to the caller exactly once; only Hash and Preview are persisted.
type Generated struct {
	Plaintext string
	Hash      string
	Preview   string
}

// Generate creates a new credential of the given kind from a
// cryptographically secure random source.
func Generate(kind Kind) (*Generated, error) {
	prefix, err := prefixFor(kind)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, payloadBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read random payload: %w", err)
	}

	plaintext := prefix + encodeBase62(buf)
	return &Generated{
		Plaintext: plaintext,
		Hash:      Hash(plaintext),
		Preview:   Preview(plaintext),
	}, nil
}

// Hash returns the hex-encoded SHA-256 digest of the plaintext. It is the
// only form of the key ever stored or compared.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Preview produces the truncated display form shown in key lists:
// the kind prefix plus the first and last few payload characters.
func Preview(plaintext string) string {
	kind, ok := KindOf(plaintext)
	if !ok {
		return ""
	}
	prefix, _ := prefixFor(kind)
	payload := plaintext[len(prefix):]
	if len(payload) <= 2*previewEdge {
		return prefix + payload
	}
	return prefix + payload[:previewEdge] + "..." + payload[len(payload)-previewEdge:]
}

// KindOf reports the kind encoded in a presented key's prefix. The second
// return is false when the prefix matches neither kind.
func KindOf(plaintext string) (Kind, bool) {
	switch {
	case strings.HasPrefix(plaintext, prefixTenant):
		return KindTenant, true
	case strings.HasPrefix(plaintext, prefixIntegration):
		return KindIntegration, true
	default:
		return "", false
	}
}

func prefixFor(kind Kind) (string, error) {
	switch kind {
	case KindTenant:
		return prefixTenant, nil
	case KindIntegration:
		return prefixIntegration, nil
	default:
		return "", fmt.Errorf("unknown credential kind %q", kind)
	}
}

func encodeBase62(b []byte) string {
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(int64(len(base62Alphabet)))
	rem := new(big.Int)

	var sb strings.Builder
	for n.Sign() > 0 {
		n.DivMod(n, base, rem)
		sb.WriteByte(base62Alphabet[rem.Int64()])
	}

	// Reverse for most-significant-digit-first order.
	s := []byte(sb.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
