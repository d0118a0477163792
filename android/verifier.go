// Package android scores Android Play Integrity tokens.
//
// DEV-ONLY: the score is a prefix heuristic. Nothing is sent to the Play
// Integrity API.
//
// See: https://developer.android.com/google/play/integrity
package android

import "strings"

// TokenPrefix marks a token as issued by the Google stub.
const TokenPrefix = "google-"

// Scores returned by Score.
const (
	ScoreTrusted    = 1.0
	ScoreUnverified = 0.5
)

// Score returns the trust score for an Android integrity token.
func Score(token string, mock bool) float64 {
	if mock {
		return ScoreTrusted
	}
	if strings.HasPrefix(token, TokenPrefix) {
		return ScoreTrusted
	}
	return ScoreUnverified
}
