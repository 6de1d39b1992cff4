// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fingerprint computes content identities for catalogued documents.
// Two byte-identical files produce the same fingerprint regardless of their
// names or locations, which is what duplicate detection keys on.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Value is a hex-encoded SHA-256 digest of a document's full byte content.
type Value string

// FromBytes fingerprints an in-memory document.
func FromBytes(data []byte) Value {
	sum := sha256.Sum256(data)
	return Value(hex.EncodeToString(sum[:]))
}

// FromReader fingerprints everything readable from r.
func FromReader(r io.Reader) (Value, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return Value(hex.EncodeToString(h.Sum(nil))), nil
}

// FromFile fingerprints the file at path. Read failures are propagated.
func FromFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := FromReader(f)
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	return v, nil
}
