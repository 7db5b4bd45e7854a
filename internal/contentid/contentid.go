// Package contentid derives stable content-addressed item identifiers.
package contentid

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HexLen is the truncated id width in hex characters.
const HexLen = 16

// New returns the id for a (title, url) pair: the SHA-256 digest of
// "lower(trim(title))|lower(trim(url))" truncated to HexLen hex chars.
// The computation is pure, so the same pair always yields the same id
// across runs and processes.
func New(title, url string) string {
	raw := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(url))
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])[:HexLen]
}
