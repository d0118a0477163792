package attestation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMock(t *testing.T) {
	assert.False(t, ResolveMock(false, false))
	assert.True(t, ResolveMock(false, true))
	assert.True(t, ResolveMock(true, false))
	assert.True(t, ResolveMock(true, true))
}

func TestMockRequested(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    bool
		wantErr error
	}{
		{name: "absent"},
		{name: "true", values: []string{"true"}, want: true},
		{name: "upper case", values: []string{"TRUE"}, want: true},
		{name: "mixed case", values: []string{"True"}, want: true},
		{name: "false", values: []string{"false"}},
		{name: "garbage", values: []string{"yes"}},
		{name: "empty", values: []string{""}},
		{name: "first value wins", values: []string{"false", "true"}},
		{name: "non ascii", values: []string{"tru\xe9"}, wantErr: ErrInvalidHeader},
		{name: "control character", values: []string{"true\x01"}, wantErr: ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.values {
				h.Add(MockHeader, v)
			}

			got, err := mockRequested(h)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
