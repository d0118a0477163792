// Package web scores integrity tokens submitted by browser clients.
//
// DEV-ONLY: a length heuristic standing in for "the token looks non-trivial".
package web

import (
	"strings"
	"unicode/utf8"
)

// TestToken always scores as fully trusted.
const TestToken = "test-token"

// MinTokenLength is the length a token must exceed to score ScorePlausible.
const MinTokenLength = 8

// Scores returned by Score.
const (
	ScoreTrusted   = 1.0
	ScorePlausible = 0.8
	ScoreRejected  = 0.0
)

// Score returns the trust score for a web integrity token.
func Score(token string, mock bool) float64 {
	if mock || strings.TrimSpace(token) == TestToken {
		return ScoreTrusted
	}
	if utf8.RuneCountInString(token) > MinTokenLength {
		return ScorePlausible
	}
	return ScoreRejected
}
