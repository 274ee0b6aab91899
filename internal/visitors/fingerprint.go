// Package visitors builds server-side device fingerprints for clients that
// do not supply one of their own.
package visitors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// BuildFingerprint derives a fallback fingerprint from the client address
// and user agent. The salt keeps fingerprints instance-specific so values
// cannot be correlated across deployments; IP addresses are never stored,
// only hashed.
func BuildFingerprint(ipAddress, userAgent, salt string) string {
	data := fmt.Sprintf("%s.%s.%s", salt, ipAddress, userAgent)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
