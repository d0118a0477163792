// Package nullifier derives stable pseudonymous identifiers from device keys.
//
// A nullifier lets callers detect a device seen before without learning its
// raw key. The derivation is salted so identifiers from different
// deployments do not line up.
package nullifier

import (
	"crypto/sha256"
	"encoding/hex"
)

// Prefix is prepended to every nullifier.
const Prefix = "nullifier-"

// DefaultSalt is used when no salt is configured.
const DefaultSalt = "vh-nullifier-salt"

// Deriver maps device keys to nullifiers. It holds no mutable state and is
// safe for concurrent use.
type Deriver struct {
	salt []byte
}

// NewDeriver returns a Deriver using salt, or DefaultSalt when salt is empty.
func NewDeriver(salt string) *Deriver {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Deriver{salt: []byte(salt)}
}

// Derive returns Prefix followed by hex(SHA-256(salt || deviceKey)).
func (d *Deriver) Derive(deviceKey string) string {
	h := sha256.New()
	h.Write(d.salt)
	h.Write([]byte(deviceKey))
	return Prefix + hex.EncodeToString(h.Sum(nil))
}
