package android

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
		{name: "google prefix", token: "google-xyz", want: 1.0},
		{name: "unknown token", token: "whatever", want: 0.5},
		{name: "apple token on android", token: "apple-xyz", want: 0.5},
		{name: "leading space", token: " google-xyz", want: 0.5},
		{name: "mock overrides token", token: "whatever", mock: true, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.token, tt.mock))
		})
	}
}

func TestScore_Range(t *testing.T) {
	for _, token := range []string{"", "google-", "x", "google-" + string(make([]byte, 100))} {
		for _, mock := range []bool{true, false} {
			s := Score(token, mock)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}
