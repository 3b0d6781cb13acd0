// Package hash computes content fingerprints for the asset store.
// All digests are SHA-256, hex-encoded.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Sum returns the hex-encoded SHA-256 digest of b.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SumString returns the hex-encoded SHA-256 digest of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// SumFile streams the file at path through SHA-256 and returns the
// hex-encoded digest. Read errors propagate to the caller.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Canonical serializes v to canonical JSON and returns the digest of that
// form alongside the serialized bytes. Canonicalization re-marshals the
// value through an untyped tree so that map key order never affects the
// digest; two logically equal values always hash identically.
func Canonical(v any) (string, []byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling content: %w", err)
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", nil, fmt.Errorf("normalizing content: %w", err)
	}

	canon, err := json.Marshal(tree)
	if err != nil {
		return "", nil, fmt.Errorf("canonicalizing content: %w", err)
	}

	return Sum(canon), canon, nil
}
