package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashPayload fingerprints a request payload: stable JSON serialization
// followed by a SHA-256 digest. Two payloads hash equal iff their serialized
// forms are identical, which is what idempotency-key reuse detection needs.
func HashPayload(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload for hashing: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
