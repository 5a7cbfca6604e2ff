package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// HashOwnerKey returns a filesystem-safe identifier for a case or user ID.
func HashOwnerKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA256Hex returns the hex-encoded SHA-256 digest of the given bytes.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256Reader streams r through SHA-256 and returns the hex digest.
func SHA256Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
