// Package session mints the session tokens returned by the verifier.
//
// Tokens are "session-<unix seconds>". Two tokens minted in the same second
// are identical unless Unique is set, which appends a random UUID.
package session

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Prefix is prepended to every session token.
const Prefix = "session-"

// Minter mints session tokens from a clock.
type Minter struct {
	// Now returns the current time (default: time.Now).
	Now func() time.Time

	// Unique appends "-<uuid>" to each token.
	Unique bool
}

// Mint returns a new session token.
func (m Minter) Mint() string {
	now := m.Now
	if now == nil {
		now = time.Now
	}

	token := Prefix + strconv.FormatInt(now().Unix(), 10)
	if m.Unique {
		token += "-" + uuid.NewString()
	}
	return token
}
