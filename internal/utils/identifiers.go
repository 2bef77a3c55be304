package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

func randomHex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the host is broken; fall back to a
		// time-derived value rather than panic
		return strings.ToUpper(fmt.Sprintf("%0*x", n, time.Now().UnixNano()))[:n]
	}
	return strings.ToUpper(hex.EncodeToString(buf))[:n]
}

// NewTrackingID returns a public application tracking identifier,
// e.g. APP-3F9A1C0D42.
func NewTrackingID() string {
	return "APP-" + randomHex(10)
}

// NewFormNo returns a human-readable form number carrying the creation
// timestamp, e.g. FORM-20260301093045-A1B2C3.
func NewFormNo(now time.Time) string {
	return fmt.Sprintf("FORM-%s-%s", now.Format("20060102150405"), randomHex(6))
}

// NewTransactionID returns a payment transaction identifier with the given
// prefix, e.g. APP-1A2B3C4D, ADM-5E6F7A8B, PAY-9C0D1E2F.
func NewTransactionID(prefix string) string {
	return prefix + "-" + randomHex(8)
}

// VerificationHash derives the deterministic verification digest for an
// application. The same inputs always produce the same hash, so the digest
// printed on an admission form can be checked later without storing secrets.
func VerificationHash(trackingID, studentID string, programID uint, appliedAt time.Time) string {
	payload := fmt.Sprintf("%s%s%d%d", trackingID, studentID, programID, appliedAt.Unix())
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
