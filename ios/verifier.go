// Package ios scores iOS App Attest integrity tokens.
//
// DEV-ONLY: the score is a prefix heuristic, not verification of Apple's
// attestation object or certificate chain.
//
// See: https://developer.apple.com/documentation/devicecheck/establishing_your_app_s_integrity
package ios

import "strings"

// TokenPrefix marks a token as issued by the Apple stub.
const TokenPrefix = "apple-"

// Scores returned by Score.
const (
	ScoreTrusted    = 1.0
	ScoreUnverified = 0.5
)

// Score returns the trust score for an iOS integrity token.
// Tokens without TokenPrefix are not rejected, only downgraded.
func Score(token string, mock bool) float64 {
	if mock {
		return ScoreTrusted
	}
	if strings.HasPrefix(token, TokenPrefix) {
		return ScoreTrusted
	}
	return ScoreUnverified
}
