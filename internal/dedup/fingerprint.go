package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashChunkSize bounds how much of the body is fed to the hash at once, so a
// very large forwarded message never requires a second full-size allocation.
const hashChunkSize = 64 * 1024

// segment separator; cannot appear in header-derived strings
const fingerprintSep = "\x00"

// Fingerprint returns the hex SHA-256 digest identifying the logical content
// of an inbound message. Sender and subject are hashed as separate delimited
// segments ahead of the canonicalized body, so identical bodies under
// different subjects do not collide. The same logical message always produces
// the same fingerprint; this is the idempotency key for the dedup store.
func Fingerprint(sender, subject, body string) string {
	h := sha256.New()

	h.Write([]byte(strings.TrimSpace(sender)))
	h.Write([]byte(fingerprintSep))
	h.Write([]byte(Canonicalize(subject)))
	h.Write([]byte(fingerprintSep))

	canonical := Canonicalize(body)
	for off := 0; off < len(canonical); off += hashChunkSize {
		end := off + hashChunkSize
		if end > len(canonical) {
			end = len(canonical)
		}
		h.Write([]byte(canonical[off:end]))
	}

	return hex.EncodeToString(h.Sum(nil))
}
