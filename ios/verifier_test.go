package ios

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		token string
		mock  bool
		want  float64
	}{
		{name: "apple prefix", token: "apple-xyz", want: 1.0},
		{name: "bare prefix", token: "apple-", want: 1.0},
		{name: "unknown token", token: "unknown", want: 0.5},
		{name: "prefix is case sensitive", token: "Apple-xyz", want: 0.5},
		{name: "prefix not at start", token: "xapple-", want: 0.5},
		{name: "google token on ios", token: "google-xyz", want: 0.5},
		{name: "mock overrides token", token: "unknown", mock: true, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.token, tt.mock))
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	for _, token := range []string{"apple-1", "other"} {
		assert.Equal(t, Score(token, false), Score(token, false))
	}
}
